package sheetkit

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/reoring/sheetkit/codec"
	"github.com/reoring/sheetkit/internal/wire"
	"github.com/reoring/sheetkit/schema"
)

// Table is the handle all record operations live on. It binds one descriptor
// set to one remote table; conversion and retry configuration are resolved at
// construction. Handles are immutable and safe for concurrent use; concurrent
// calls are fully independent (no shared queue or ordering guarantee).
type Table struct {
	client *Client
	name   string
	fields schema.Fields
	cfg    tableConfig
	conv   codec.Options
	disp   *wire.Dispatcher
}

func newTable(c *Client, name string, fields schema.Fields, opts []TableOption) (*Table, error) {
	cfg := tableConfig{
		maxRetries: DefaultMaxRetries,
		retryDelay: DefaultRetryDelay,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	tz := cfg.timezone
	if tz == "" {
		tz = c.timezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("sheetkit: unknown timezone %q: %w", tz, err)
	}
	return &Table{
		client: c,
		name:   name,
		fields: fields,
		cfg:    cfg,
		conv:   codec.Options{Location: loc, Lenient: cfg.lenientDates},
		disp:   wire.NewDispatcher(c.doer, c.log, cfg.maxRetries, cfg.retryDelay),
	}, nil
}

// Fields returns the descriptor set the table was built with.
func (t *Table) Fields() schema.Fields { return t.fields }

// Build converts one remote row into an application record.
func (t *Table) Build(row map[string]any) Record {
	return buildRecord(t.conv, row, t.fields)
}

// Revert converts an application record into an outbound row, applying
// descriptor defaults for absent fields.
func (t *Table) Revert(rec Record) Row {
	return revertRecord(rec, t.fields, true)
}

// RevertPartial converts without applying defaults, for payloads where an
// omitted field must stay omitted rather than resurface as its default.
func (t *Table) RevertPartial(rec Record) Row {
	return revertRecord(rec, t.fields, false)
}

// FindByID fetches the single record whose primary key column carries id.
// It returns a nil record (and nil error) when no row matched: not-found is
// an ordinary outcome here, not a failure.
func (t *Table) FindByID(ctx context.Context, id string) (Record, error) {
	if id == "" {
		return nil, ErrEmptyID
	}
	name, f, err := t.fields.PrimaryKey()
	if err != nil {
		return nil, err
	}
	filter := wire.Row{f.Column(name): id}
	rows, err := t.call(ctx, wire.ActionFind, nil, []wire.Row{filter})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return t.buildOne(rows[0]), nil
}

// Find fetches records matching the optional row filters and call properties.
// Both may be nil for an unfiltered read.
func (t *Table) Find(ctx context.Context, filter []Row, props Properties) ([]Record, error) {
	payload := make([]wire.Row, len(filter))
	for i, row := range filter {
		payload[i] = rowToWire(row)
	}
	rows, err := t.call(ctx, wire.ActionFind, props, payload)
	if err != nil {
		return nil, err
	}
	return t.buildMany(rows), nil
}

// Create adds one record and returns the created row as echoed by the remote
// (nil when the remote echoes nothing back).
func (t *Table) Create(ctx context.Context, rec Record) (Record, error) {
	rows, err := t.call(ctx, wire.ActionAdd, nil, []wire.Row{t.outbound(rec, true)})
	if err != nil {
		return nil, err
	}
	return t.firstOrNil(rows), nil
}

// CreateMany adds records in one batched request. The batch succeeds or fails
// as a whole from this layer's perspective.
func (t *Table) CreateMany(ctx context.Context, recs []Record) ([]Record, error) {
	payload := make([]wire.Row, len(recs))
	for i, rec := range recs {
		payload[i] = t.outbound(rec, true)
	}
	rows, err := t.call(ctx, wire.ActionAdd, nil, payload)
	if err != nil {
		return nil, err
	}
	return t.buildMany(rows), nil
}

// Update edits the remote row identified by the record's primary key value.
// The revert pass applies no descriptor defaults: fields omitted from rec are
// omitted from the payload, so the remote keeps their current values.
func (t *Table) Update(ctx context.Context, rec Record) (Record, error) {
	if err := t.requireKey(rec, -1); err != nil {
		return nil, err
	}
	rows, err := t.call(ctx, wire.ActionEdit, nil, []wire.Row{t.outbound(rec, false)})
	if err != nil {
		return nil, err
	}
	return t.firstOrNil(rows), nil
}

// UpdateMany edits records in one batched request. Every record must carry a
// primary key value; all offending indices are reported before any network
// call is made.
func (t *Table) UpdateMany(ctx context.Context, recs []Record) ([]Record, error) {
	if err := t.requireKeys(recs); err != nil {
		return nil, err
	}
	payload := make([]wire.Row, len(recs))
	for i, rec := range recs {
		payload[i] = t.outbound(rec, false)
	}
	rows, err := t.call(ctx, wire.ActionEdit, nil, payload)
	if err != nil {
		return nil, err
	}
	return t.buildMany(rows), nil
}

// Delete removes the remote row identified by the record's primary key value.
func (t *Table) Delete(ctx context.Context, rec Record) (Record, error) {
	if err := t.requireKey(rec, -1); err != nil {
		return nil, err
	}
	rows, err := t.call(ctx, wire.ActionDelete, nil, []wire.Row{t.outbound(rec, true)})
	if err != nil {
		return nil, err
	}
	return t.firstOrNil(rows), nil
}

// DeleteMany removes records in one batched request, with the same
// precondition reporting as UpdateMany.
func (t *Table) DeleteMany(ctx context.Context, recs []Record) ([]Record, error) {
	if err := t.requireKeys(recs); err != nil {
		return nil, err
	}
	payload := make([]wire.Row, len(recs))
	for i, rec := range recs {
		payload[i] = t.outbound(rec, true)
	}
	rows, err := t.call(ctx, wire.ActionDelete, nil, payload)
	if err != nil {
		return nil, err
	}
	return t.buildMany(rows), nil
}

// ---- plumbing ----

func (t *Table) call(ctx context.Context, action wire.Action, props Properties, rows []wire.Row) ([]wire.Row, error) {
	cfg := wire.Config{
		BaseURL:      t.client.baseURL,
		AppID:        t.client.creds.AppID,
		AccessKey:    t.client.creds.AccessKey,
		Locale:       t.client.locale,
		Timezone:     t.timezone(),
		UserSettings: t.client.userSettings,
	}
	return t.disp.Call(ctx, cfg, t.name, action, props, rows)
}

func (t *Table) timezone() string {
	if t.cfg.timezone != "" {
		return t.cfg.timezone
	}
	return t.client.timezone
}

// outbound converts one record into its wire payload, honoring the raw-send
// mode and the default-application mode of the calling operation.
func (t *Table) outbound(rec Record, applyDefaults bool) wire.Row {
	if t.cfg.sendRaw {
		return wire.Row(rec)
	}
	var row Row
	if applyDefaults {
		row = t.Revert(rec)
	} else {
		row = t.RevertPartial(rec)
	}
	return rowToWire(row)
}

func (t *Table) buildOne(row wire.Row) Record {
	if t.cfg.returnRaw {
		return Record(row)
	}
	return t.Build(row)
}

func (t *Table) buildMany(rows []wire.Row) []Record {
	out := make([]Record, len(rows))
	for i, row := range rows {
		out[i] = t.buildOne(row)
	}
	return out
}

func (t *Table) firstOrNil(rows []wire.Row) Record {
	if len(rows) == 0 {
		return nil
	}
	return t.buildOne(rows[0])
}

// requireKey checks that the record carries a value under the schema's
// primary key field. index tags the error in bulk mode (-1 otherwise).
func (t *Table) requireKey(rec Record, index int) error {
	name, _, err := t.fields.PrimaryKey()
	if err != nil {
		return err
	}
	if v, ok := rec[name]; !ok || v == nil {
		return &MissingKeyError{Field: name, Index: index}
	}
	return nil
}

// requireKeys validates a whole batch up front, naming every offending index.
func (t *Table) requireKeys(recs []Record) error {
	if _, _, err := t.fields.PrimaryKey(); err != nil {
		return err
	}
	var result *multierror.Error
	for i, rec := range recs {
		if err := t.requireKey(rec, i); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

func rowToWire(row Row) wire.Row {
	out := make(wire.Row, len(row))
	for k, v := range row {
		out[k] = v
	}
	return out
}
