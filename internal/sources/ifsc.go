package sources

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"osint-api/internal/record"
	"osint-api/internal/upstream"
)

type ifscResponse struct {
	Bank     string `json:"BANK"`
	Branch   string `json:"BRANCH"`
	Address  string `json:"ADDRESS"`
	City     string `json:"CITY"`
	District string `json:"DISTRICT"`
	State    string `json:"STATE"`
	IFSC     string `json:"IFSC"`
	MICR     string `json:"MICR"`
	Contact  string `json:"CONTACT"`
	UPI      bool   `json:"UPI"`
}

// IFSC：银行分行代码查询；任何 HTTP 失败（含 404）均视为代码不存在
func (e Env) IFSC(ctx context.Context, code string) (*record.Record, error) {
	var r ifscResponse
	err := e.HTTP.JSON(ctx, upstream.Request{
		Source: "ifsc",
		URL:    join(e.Upstreams.IFSC, url.PathEscape(code)),
		Header: upstream.Headers("User-Agent", e.APIUA),
	}, &r)
	if err != nil {
		var se *upstream.StatusError
		if errors.As(err, &se) {
			return nil, notFound("IFSC code not found")
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	contact := r.Contact
	if contact == "" {
		contact = "N/A"
	}
	upi := "Disabled"
	if r.UPI {
		upi = "Enabled"
	}
	rec := record.New()
	rec.Set("Bank Name", r.Bank)
	rec.Set("Branch", r.Branch)
	rec.Set("Address", r.Address)
	rec.Set("City", r.City)
	rec.Set("District", r.District)
	rec.Set("State", r.State)
	rec.Set("IFSC Code", r.IFSC)
	rec.Set("MICR Code", r.MICR)
	rec.Set("Contact", contact)
	rec.Set("UPI", upi)
	return rec, nil
}
