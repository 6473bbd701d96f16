package schema

import (
	"strings"
	"testing"
)

const sampleYAML = `
id:
  type: string
  key: User_ID
  primary: true
age:
  type: integer
  default: 18
active:
  type: boolean
tags:
  type: array
  itemType: string
joined:
  type: date
address:
  type: object
  properties:
    city:
      type: string
    zip:
      type: string
      key: Zip_Code
`

func TestParseYAML(t *testing.T) {
	fs, err := ParseYAML([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(fs) != 6 {
		t.Fatalf("got %d fields", len(fs))
	}

	id := fs["id"]
	if id.Kind != KindString || id.Key != "User_ID" || !id.Primary {
		t.Fatalf("id descriptor: %#v", id)
	}

	age := fs["age"]
	if age.Kind != KindInteger || !age.HasDefault() || age.Default() != 18 {
		t.Fatalf("age descriptor: %#v default %v", age, age.Default())
	}

	if fs["tags"].Item != KindString {
		t.Fatalf("tags item kind: %v", fs["tags"].Item)
	}

	addr := fs["address"]
	if addr.Kind != KindObject || len(addr.Object) != 2 {
		t.Fatalf("address descriptor: %#v", addr)
	}
	if addr.Object["zip"].Column("zip") != "Zip_Code" {
		t.Fatalf("nested key override lost")
	}

	name, _, err := fs.PrimaryKey()
	if err != nil || name != "id" {
		t.Fatalf("primary key: %q, %v", name, err)
	}
}

func TestParseYAML_Errors(t *testing.T) {
	if _, err := ParseYAML([]byte("x: {type: blob}")); err == nil || !strings.Contains(err.Error(), "unknown type") {
		t.Fatalf("unknown type: got %v", err)
	}
	if _, err := ParseYAML([]byte("x: {type: array, itemType: widget}")); err == nil || !strings.Contains(err.Error(), "unknown itemType") {
		t.Fatalf("unknown itemType: got %v", err)
	}
	// validation runs after parsing
	if _, err := ParseYAML([]byte("x: {type: array}")); err == nil {
		t.Fatalf("array without itemType accepted")
	}
	if _, err := ParseYAML([]byte("not yaml: [")); err == nil {
		t.Fatalf("malformed yaml accepted")
	}
}

func TestParseYAML_DatetimeItemAlias(t *testing.T) {
	fs, err := ParseYAML([]byte("when: {type: array, itemType: datetime}"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if fs["when"].Item != KindDate {
		t.Fatalf("item kind: %v", fs["when"].Item)
	}
}
