package main

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"osint-api/internal/localdb"
	"osint-api/internal/lookup"
	"osint-api/internal/record"
)

type oneLocator struct{}

func (oneLocator) Lookup(ip string) (localdb.Location, bool) {
	if ip != "1.2.3.4" {
		return localdb.Location{}, false
	}
	return localdb.Location{Country: "中国", Province: "广东省", City: "深圳市", ISP: "电信"}, true
}

func TestRender(t *testing.T) {
	color.NoColor = true
	rec := record.New()
	rec.Set("RTO Code", "KA05")
	rec.Set("State", "Karnataka")
	var buf bytes.Buffer
	render(&buf, &lookup.Result{Data: rec, Degraded: true})
	out := buf.String()
	assert.Contains(t, out, "FIELD")
	assert.Contains(t, out, "KA05")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("RTO Code")), bytes.Index(buf.Bytes(), []byte("State")))
	assert.Contains(t, out, "partial result")
}

func TestRunOffline(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	assert.Equal(t, 0, runOffline(&buf, "1.2.3.4", localdb.NewChain(nil, oneLocator{})))
	assert.Contains(t, buf.String(), "广东省")

	buf.Reset()
	assert.Equal(t, 1, runOffline(&buf, "5.6.7.8", localdb.NewChain(oneLocator{})))
	assert.Contains(t, buf.String(), "no offline data")

	buf.Reset()
	assert.Equal(t, 1, runOffline(&buf, "nope", oneLocator{}))
	assert.Contains(t, buf.String(), "Invalid IP address format.")
}
