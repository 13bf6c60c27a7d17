// Package estimate prices special waste pickups from a photo and a short
// description.
package estimate

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"math"
	"strings"
)

var ErrInvalidDataURI = errors.New("photo must be a base64 data URI with a MIME type")

type Request struct {
	PhotoDataURI string `json:"photoDataUri" validate:"required,datauri"`
	Description  string `json:"description" validate:"max=1000"`
}

type Estimate struct {
	EstimatedCost float64 `json:"estimatedCost"`
	Justification string  `json:"justification"`
}

type Estimator interface {
	Estimate(ctx context.Context, req Request) (*Estimate, error)
}

// PhotoDataURI encodes data as data:<mime>;base64,<payload>.
func PhotoDataURI(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// ParseDataURI returns the MIME type and decoded payload of a base64 data URI.
func ParseDataURI(uri string) (mime string, data []byte, err error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", nil, ErrInvalidDataURI
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, ErrInvalidDataURI
	}
	mime, ok = strings.CutSuffix(meta, ";base64")
	if !ok || mime == "" || !strings.Contains(mime, "/") {
		return "", nil, ErrInvalidDataURI
	}
	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInvalidDataURI, err)
	}
	return mime, data, nil
}

// Pricing is the municipal fee schedule for special pickups, in THB.
type Pricing struct {
	BaseFee         float64
	PerCubicMeter   float64
	SpecialHandling float64
}

func DefaultPricing() Pricing {
	return Pricing{BaseFee: 50, PerCubicMeter: 150, SpecialHandling: 200}
}

// Fee prices volume cubic meters of waste, plus the handling surcharge for
// bulky items, debris or electronics.
func (p Pricing) Fee(volume float64, special bool) float64 {
	fee := p.BaseFee + math.Max(volume, 0)*p.PerCubicMeter
	if special {
		fee += p.SpecialHandling
	}
	return math.Round(fee)
}
