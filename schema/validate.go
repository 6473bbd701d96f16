package schema

import (
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// itemKinds lists the element kinds an array field may declare.
var itemKinds = map[Kind]bool{
	KindString:  true,
	KindNumber:  true,
	KindInteger: true,
	KindDate:    true,
}

// Validate checks the descriptor set for structural problems: unknown kinds,
// arrays without a valid item kind, objects without nested fields, and more
// than one primary field. Conversion itself is lenient about these (an
// ill-formed array or object field simply never produces a value), so
// Validate is the place where mistakes surface as errors instead of silently
// empty output.
func (fs Fields) Validate() error {
	errs := validation.Errors{}
	for name, f := range fs {
		if err := f.validate(); err != nil {
			errs[name] = err
		}
	}
	// A missing primary key is only an error for the operations that need
	// one; more than one is always a structural defect.
	var multi *MultiplePrimaryKeysError
	if _, _, err := fs.PrimaryKey(); errors.As(err, &multi) {
		errs["primary"] = multi
	}
	return errs.Filter()
}

func (f Field) validate() error {
	switch f.Kind {
	case KindString, KindNumber, KindInteger, KindBool, KindDate:
		return nil
	case KindArray:
		return validation.Validate(f.Item,
			validation.Required.Error("array field requires an item kind"),
			validation.By(func(v any) error {
				if !itemKinds[v.(Kind)] {
					return fmt.Errorf("invalid array item kind %q", v.(Kind))
				}
				return nil
			}))
	case KindObject:
		if len(f.Object) == 0 {
			return fmt.Errorf("object field requires nested fields")
		}
		return f.Object.Validate()
	}
	return fmt.Errorf("unknown field kind %d", f.Kind)
}
