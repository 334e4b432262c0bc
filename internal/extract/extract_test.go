package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

var vehicleNoise = []string{"VahanX", "RC Search"}

func TestValueSpanParagraphPair(t *testing.T) {
	html := `<div><span class="lbl">Owner Name</span><p class="v">RAVI KUMAR</p></div>`
	v, ok := Value(html, []string{"Owner Name"}, vehicleNoise)
	assert.True(t, ok)
	assert.Equal(t, "RAVI KUMAR", v)
}

func TestValueLabelOrderWins(t *testing.T) {
	html := `<span>Owner</span><p>FIRST</p><span>Owner Name</span><p>SECOND</p>`
	v, ok := Value(html, []string{"Owner Name", "Owner"}, nil)
	assert.True(t, ok)
	assert.Equal(t, "SECOND", v)
}

func TestValueSkipsPlaceholderAndFallsBackToNextLabel(t *testing.T) {
	html := `<span>Color</span><p>N/A</p><div><span>Colour</span><p>WHITE</p></div>`
	v, ok := Value(html, []string{"Color", "Colour"}, nil)
	assert.True(t, ok)
	assert.Equal(t, "WHITE", v)
}

func TestValueLooseLabelColonForm(t *testing.T) {
	html := `<div>Fuel Type: <b>PETROL</b></div>`
	v, ok := Value(html, []string{"Fuel Type"}, nil)
	assert.True(t, ok)
	assert.Equal(t, "PETROL", v)
}

func TestValueGapWithinTwoHundredChars(t *testing.T) {
	html := `<span>Chassis Number</span><div class="x"><i></i></div><p>MA3XXXXX1234</p>`
	v, ok := Value(html, []string{"Chassis Number"}, nil)
	assert.True(t, ok)
	assert.Equal(t, "MA3XXXXX1234", v)
}

func TestValueNormalizesEntities(t *testing.T) {
	html := `<span>Address</span><p>12 MG Road &amp; Sons&nbsp;;</p>`
	v, ok := Value(html, []string{"Address"}, nil)
	assert.True(t, ok)
	assert.Equal(t, "12 MG Road & Sons", v)
}

func TestValueRejectsNoiseAndOversize(t *testing.T) {
	_, ok := Value(`<span>Owner Name</span><p>VahanX RC Search</p>`, []string{"Owner Name"}, vehicleNoise)
	assert.False(t, ok)

	long := `<span>Address</span><p>` + strings.Repeat("a", 250) + `</p>`
	_, ok = Value(long, []string{"Address"}, nil)
	assert.False(t, ok)
}

func TestValueLabelIsLiteral(t *testing.T) {
	html := `<span>DxOxB</span><p>WRONG</p><span>D.O.B</span><p>01-01-1990</p>`
	v, ok := Value(html, []string{"D.O.B"}, nil)
	assert.True(t, ok)
	assert.Equal(t, "01-01-1990", v)
}

func TestValueIsIdempotent(t *testing.T) {
	html := `<span>Maker Model</span><p>MARUTI SWIFT</p><span>Fuel</span><p>CNG</p>`
	labels := []string{"Maker Model", "Maker"}
	first, ok1 := Value(html, labels, nil)
	second, ok2 := Value(html, labels, nil)
	assert.Equal(t, ok1, ok2)
	assert.Equal(t, first, second)
	assert.Equal(t, "MARUTI SWIFT", first)
}

func TestValueAbsent(t *testing.T) {
	v, ok := Value(`<html><body>nothing</body></html>`, []string{"Owner Name"}, nil)
	assert.False(t, ok)
	assert.Empty(t, v)
}

func TestValid(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"", false},
		{"N/A", false},
		{"NA", false},
		{"-", false},
		{"null", false},
		{"undefined", false},
		{"Data Not Available", false},
		{"Powered by VahanX", false},
		{`x="y"`, false},
		{"div class=row", false},
		{`<>"'`, false},
		{strings.Repeat("a", MaxValueLen), false},
		{strings.Repeat("a", MaxValueLen-1), true},
		{"MH12AB1234", true},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Valid(c.in, vehicleNoise), "value %q", c.in)
	}
}

func TestTableCell(t *testing.T) {
	html := `<tr><td class="k">Owner Name</td> <td>RAVI</td></tr><tr><td>Hometown</td><td>N/A</td></tr>`
	v, ok := TableCell(html, "Owner Name")
	assert.True(t, ok)
	assert.Equal(t, "RAVI", v)

	_, ok = TableCell(html, "Hometown")
	assert.False(t, ok)
	_, ok = TableCell(html, "Complaints")
	assert.False(t, ok)
}

func TestLooseTableCell(t *testing.T) {
	v, ok := LooseTableCell(`<td>Operator:</td> <td class="v">Jio </td>`, "Operator")
	assert.True(t, ok)
	assert.Equal(t, "Jio", v)
}
