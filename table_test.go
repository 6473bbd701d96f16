package sheetkit

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/sheetkit/schema"
)

// actionPayload mirrors the request body for assertions.
type actionPayload struct {
	Action     string           `json:"Action"`
	Properties map[string]any   `json:"Properties"`
	Rows       []map[string]any `json:"Rows"`
}

// recordingServer captures every request body and plays back canned responses
// in order (the last response repeats once the list runs out).
type recordingServer struct {
	*httptest.Server

	mu        sync.Mutex
	payloads  []actionPayload
	paths     []string
	responses []response
}

type response struct {
	status int
	body   string
}

func newRecordingServer(t *testing.T, responses ...response) *recordingServer {
	t.Helper()
	rs := &recordingServer{responses: responses}
	rs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var p actionPayload
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		rs.mu.Lock()
		rs.payloads = append(rs.payloads, p)
		rs.paths = append(rs.paths, r.URL.Path+"?"+r.URL.RawQuery)
		i := len(rs.payloads) - 1
		if i >= len(rs.responses) {
			i = len(rs.responses) - 1
		}
		resp := rs.responses[i]
		rs.mu.Unlock()
		w.WriteHeader(resp.status)
		_, _ = w.Write([]byte(resp.body))
	}))
	t.Cleanup(rs.Close)
	return rs
}

func (rs *recordingServer) calls() int {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return len(rs.payloads)
}

func (rs *recordingServer) payload(i int) actionPayload {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return rs.payloads[i]
}

func newTestTable(t *testing.T, rs *recordingServer, opts ...TableOption) *Table {
	t.Helper()
	c, err := NewClient(
		Credentials{AppID: "app-1", AccessKey: "secret key"},
		WithBaseURL(rs.URL),
		WithHTTPClient(rs.Client()),
	)
	require.NoError(t, err)
	opts = append([]TableOption{WithRetry(DefaultMaxRetries, time.Millisecond)}, opts...)
	tbl, err := c.Table("users", testFields(), opts...)
	require.NoError(t, err)
	return tbl
}

func TestFindByID(t *testing.T) {
	rs := newRecordingServer(t, response{200, `{"Rows":[{"User_ID":"123","name":"Ada","age":"41"}]}`})
	tbl := newTestTable(t, rs)

	rec, err := tbl.FindByID(context.Background(), "123")
	require.NoError(t, err)
	assert.Equal(t, "123", rec["id"])
	assert.Equal(t, "Ada", rec["name"])
	assert.Equal(t, int64(41), rec["age"])

	// the filter row uses the remote column name, not the logical one
	p := rs.payload(0)
	assert.Equal(t, "Find", p.Action)
	require.Len(t, p.Rows, 1)
	assert.Equal(t, map[string]any{"User_ID": "123"}, p.Rows[0])

	// endpoint carries the app id, table name and access key
	assert.Contains(t, rs.paths[0], "/api/v2/apps/app-1/tables/users/Action")
	assert.Contains(t, rs.paths[0], "applicationAccessKey=secret+key")
}

func TestFindByID_NotFoundIsNotAnError(t *testing.T) {
	rs := newRecordingServer(t, response{200, `{"Rows":[]}`})
	tbl := newTestTable(t, rs)

	rec, err := tbl.FindByID(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestFindByID_Preconditions(t *testing.T) {
	rs := newRecordingServer(t, response{200, `{"Rows":[]}`})
	tbl := newTestTable(t, rs)

	_, err := tbl.FindByID(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyID)
	assert.Zero(t, rs.calls(), "precondition failures never reach the network")

	c, err := NewClient(Credentials{AppID: "a", AccessKey: "k"}, WithBaseURL(rs.URL))
	require.NoError(t, err)
	noPK, err := c.Table("users", schema.Fields{"name": schema.String()})
	require.NoError(t, err)
	_, err = noPK.FindByID(context.Background(), "123")
	assert.ErrorIs(t, err, schema.ErrNoPrimaryKey)
	assert.Zero(t, rs.calls())
}

func TestFind_PropertiesMerge(t *testing.T) {
	rs := newRecordingServer(t, response{200, `{"Rows":[]}`})
	tbl := newTestTable(t, rs)

	_, err := tbl.Find(context.Background(), nil, Properties{
		"Selector": `Filter(users, [age] > 18)`,
		"Locale":   "en-US",
	})
	require.NoError(t, err)

	props := rs.payload(0).Properties
	assert.Equal(t, `Filter(users, [age] > 18)`, props["Selector"])
	assert.Equal(t, "en-US", props["Locale"], "call properties win over connection defaults")
	assert.Equal(t, "UTC", props["Timezone"])
}

func TestCreate_AppliesDefaults(t *testing.T) {
	rs := newRecordingServer(t, response{200, `{"Rows":[{"User_ID":"9","name":"gen"}]}`})
	c, err := NewClient(Credentials{AppID: "a", AccessKey: "k"}, WithBaseURL(rs.URL), WithHTTPClient(rs.Client()))
	require.NoError(t, err)
	tbl, err := c.Table("users", schema.Fields{
		"id":   schema.String().WithKey("User_ID").AsPrimary().WithDefaultFunc(func() any { return "9" }),
		"name": schema.String(),
	})
	require.NoError(t, err)

	rec, err := tbl.Create(context.Background(), Record{"name": "gen"})
	require.NoError(t, err)
	assert.Equal(t, "9", rec["id"])

	row := rs.payload(0).Rows[0]
	assert.Equal(t, "Add", rs.payload(0).Action)
	assert.Equal(t, "9", row["User_ID"], "descriptor default fills the absent key on create")
}

func TestUpdate_SkipsDefaultsAndRequiresKey(t *testing.T) {
	rs := newRecordingServer(t, response{200, `{"Rows":[{"User_ID":"9"}]}`})
	c, err := NewClient(Credentials{AppID: "a", AccessKey: "k"}, WithBaseURL(rs.URL), WithHTTPClient(rs.Client()))
	require.NoError(t, err)
	tbl, err := c.Table("users", schema.Fields{
		"id":    schema.String().WithKey("User_ID").AsPrimary(),
		"state": schema.String().WithDefault("new"),
	})
	require.NoError(t, err)

	// a record without its key is rejected before any network traffic
	_, err = tbl.Update(context.Background(), Record{"state": "open"})
	var missing *MissingKeyError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "id", missing.Field)
	assert.Equal(t, -1, missing.Index)
	assert.Zero(t, rs.calls())

	_, err = tbl.Update(context.Background(), Record{"id": "9"})
	require.NoError(t, err)
	row := rs.payload(0).Rows[0]
	assert.Equal(t, "Edit", rs.payload(0).Action)
	_, hasState := row["state"]
	assert.False(t, hasState, "update payloads never resurface defaults")
}

func TestUpdateMany_ReportsEveryMissingKey(t *testing.T) {
	rs := newRecordingServer(t, response{200, `{"Rows":[]}`})
	tbl := newTestTable(t, rs)

	_, err := tbl.UpdateMany(context.Background(), []Record{
		{"name": "a"},
		{"id": "2"},
		{"id": nil},
	})
	require.Error(t, err)
	assert.Zero(t, rs.calls())

	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	require.Len(t, merr.Errors, 2)
	indices := make([]int, 0, 2)
	for _, e := range merr.Errors {
		var missing *MissingKeyError
		require.ErrorAs(t, e, &missing)
		indices = append(indices, missing.Index)
	}
	assert.Equal(t, []int{0, 2}, indices)
}

func TestDelete_SendsKeyRow(t *testing.T) {
	rs := newRecordingServer(t, response{200, `{"Rows":[{"User_ID":"9"}]}`})
	tbl := newTestTable(t, rs)

	rec, err := tbl.Delete(context.Background(), Record{"id": "9"})
	require.NoError(t, err)
	assert.Equal(t, "9", rec["id"])
	assert.Equal(t, "Delete", rs.payload(0).Action)
	assert.Equal(t, map[string]any{"User_ID": "9"}, rs.payload(0).Rows[0])
}

func TestRateLimit_RetriesThenSucceeds(t *testing.T) {
	rs := newRecordingServer(t,
		response{429, "slow down"},
		response{429, "slow down"},
		response{200, `{"Rows":[{"User_ID":"1"}]}`},
	)
	tbl := newTestTable(t, rs)

	rec, err := tbl.FindByID(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "1", rec["id"])
	assert.Equal(t, 3, rs.calls())
}

func TestRateLimit_ExhaustsBudget(t *testing.T) {
	rs := newRecordingServer(t, response{429, "slow down"})
	tbl := newTestTable(t, rs, WithRetry(2, time.Millisecond))

	_, err := tbl.FindByID(context.Background(), "1")
	require.Error(t, err)
	assert.True(t, IsRateLimited(err))
	assert.Equal(t, 3, rs.calls(), "initial attempt plus two retries")
}

func TestNonRateLimitStatusFailsImmediately(t *testing.T) {
	rs := newRecordingServer(t, response{500, "boom"})
	tbl := newTestTable(t, rs)

	_, err := tbl.FindByID(context.Background(), "1")
	require.Error(t, err)
	assert.False(t, IsRateLimited(err))
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 500, se.Code)
	assert.Equal(t, 1, rs.calls())
}

func TestEmptyResponseBody(t *testing.T) {
	rs := newRecordingServer(t, response{200, "  "})
	tbl := newTestTable(t, rs)

	_, err := tbl.FindByID(context.Background(), "1")
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestReturnRawData(t *testing.T) {
	rs := newRecordingServer(t, response{200, `{"Rows":[{"User_ID":"1","age":"41"}]}`})
	tbl := newTestTable(t, rs, ReturnRawData())

	rec, err := tbl.FindByID(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, Record{"User_ID": "1", "age": "41"}, rec, "raw mode keeps remote column names and cell strings")
}

func TestSendRawData(t *testing.T) {
	rs := newRecordingServer(t, response{200, `{"Rows":[]}`})
	tbl := newTestTable(t, rs, SendRawData())

	_, err := tbl.Create(context.Background(), Record{"User_ID": "1", "anything": 42})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"User_ID": "1", "anything": float64(42)}, rs.payload(0).Rows[0])
}

func TestBareArrayAndBareObjectResponses(t *testing.T) {
	rs := newRecordingServer(t,
		response{200, `[{"User_ID":"1"},{"User_ID":"2"}]`},
		response{200, `{"User_ID":"3"}`},
	)
	tbl := newTestTable(t, rs)

	recs, err := tbl.Find(context.Background(), nil, nil)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "2", recs[1]["id"])

	rec, err := tbl.FindByID(context.Background(), "3")
	require.NoError(t, err)
	assert.Equal(t, "3", rec["id"])
}

func TestTable_UnknownTimezone(t *testing.T) {
	c, err := NewClient(Credentials{AppID: "a", AccessKey: "k"})
	require.NoError(t, err)
	_, err = c.Table("users", testFields(), WithTableTimezone("Mars/Olympus"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown timezone")
}

func TestTable_RejectsInvalidSchema(t *testing.T) {
	c, err := NewClient(Credentials{AppID: "a", AccessKey: "k"})
	require.NoError(t, err)

	_, err = c.Table("", testFields())
	assert.Error(t, err)

	_, err = c.Table("users", schema.Fields{"tags": schema.Field{Kind: schema.KindArray}})
	assert.Error(t, err)
}

func TestContextCancellation(t *testing.T) {
	rs := newRecordingServer(t, response{429, "slow down"})
	tbl := newTestTable(t, rs, WithRetry(10, 50*time.Millisecond))

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()
	_, err := tbl.FindByID(ctx, "1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded) || IsRateLimited(err))
	assert.Less(t, rs.calls(), 11)
}
