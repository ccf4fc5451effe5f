package dto

import (
	"rentcal/internal/domain/availability"
	"rentcal/internal/domain/pricing"
	"rentcal/internal/domain/rules"
)

type PricingFactor struct {
	Type       string  `json:"type"`
	Multiplier float64 `json:"multiplier"`
	Reason     string  `json:"reason"`
}

type LineItem struct {
	Name   string   `json:"name"`
	Amount MoneyDTO `json:"amount"`
}

type Pricing struct {
	Currency      string          `json:"currency"`
	BasePrice     MoneyDTO        `json:"base_price"`
	Nightly       MoneyDTO        `json:"nightly"`
	Nights        int             `json:"nights"`
	Accommodation MoneyDTO        `json:"accommodation"`
	Fees          []LineItem      `json:"fees"`
	Taxes         []LineItem      `json:"taxes"`
	Discounts     []LineItem      `json:"discounts"`
	Total         MoneyDTO        `json:"total"`
	Factors       []PricingFactor `json:"factors"`
}

type Inventory struct {
	Total     int `json:"total"`
	Available int `json:"available"`
	Reserved  int `json:"reserved"`
}

type Restriction struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type Alternative struct {
	CheckIn      string        `json:"check_in"`
	CheckOut     string        `json:"check_out"`
	Nights       int           `json:"nights"`
	Available    bool          `json:"available"`
	Pricing      Pricing       `json:"pricing"`
	Restrictions []Restriction `json:"restrictions"`
}

type Availability struct {
	PropertyID   string        `json:"property_id"`
	CheckIn      string        `json:"check_in"`
	CheckOut     string        `json:"check_out"`
	Nights       int           `json:"nights"`
	Guests       int           `json:"guests"`
	Units        int           `json:"units"`
	Available    bool          `json:"available"`
	Pricing      Pricing       `json:"pricing"`
	Inventory    Inventory     `json:"inventory"`
	Restrictions []Restriction `json:"restrictions"`
	Conflicts    []string      `json:"conflicts"`
	MinStay      int           `json:"min_stay,omitempty"`
	MaxStay      int           `json:"max_stay,omitempty"`
	Alternatives []Alternative `json:"alternatives,omitempty"`
}

func MapAvailability(resp availability.Response) Availability {
	out := Availability{
		PropertyID:   resp.PropertyID,
		CheckIn:      resp.Range.CheckIn.Format(DateLayout),
		CheckOut:     resp.Range.CheckOut.Format(DateLayout),
		Nights:       resp.Nights,
		Guests:       resp.Guests,
		Units:        resp.Units,
		Available:    resp.Available,
		Pricing:      MapPricing(resp.Pricing),
		Inventory:    Inventory{Total: resp.Inventory.Total, Available: resp.Inventory.Available, Reserved: resp.Inventory.Reserved},
		Restrictions: MapRestrictions(resp.Restrictions),
		Conflicts:    make([]string, 0, len(resp.Conflicts)),
		MinStay:      resp.MinStay,
		MaxStay:      resp.MaxStay,
	}
	for _, id := range resp.Conflicts {
		out.Conflicts = append(out.Conflicts, string(id))
	}
	for _, alt := range resp.Alternatives {
		out.Alternatives = append(out.Alternatives, Alternative{
			CheckIn:      alt.Range.CheckIn.Format(DateLayout),
			CheckOut:     alt.Range.CheckOut.Format(DateLayout),
			Nights:       alt.Nights,
			Available:    alt.Available,
			Pricing:      MapPricing(alt.Pricing),
			Restrictions: MapRestrictions(alt.Restrictions),
		})
	}
	return out
}

func MapPricing(q pricing.Quote) Pricing {
	b := q.Breakdown
	out := Pricing{
		Currency:      q.Currency,
		BasePrice:     MapMoney(q.BasePrice),
		Nightly:       MapMoney(b.Nightly),
		Nights:        b.Nights,
		Accommodation: MapMoney(b.Accommodation()),
		Fees:          make([]LineItem, 0, len(b.Fees)),
		Taxes:         make([]LineItem, 0, len(b.Taxes)),
		Discounts:     make([]LineItem, 0, len(b.Discounts)),
		Total:         MapMoney(b.Total),
		Factors:       make([]PricingFactor, 0, len(q.Factors)),
	}
	for _, f := range b.Fees {
		out.Fees = append(out.Fees, LineItem{Name: f.Name, Amount: MapMoney(f.Amount)})
	}
	for _, t := range b.Taxes {
		out.Taxes = append(out.Taxes, LineItem{Name: t.Name, Amount: MapMoney(t.Amount)})
	}
	for _, d := range b.Discounts {
		out.Discounts = append(out.Discounts, LineItem{Name: d.Name, Amount: MapMoney(d.Amount)})
	}
	for _, f := range q.Factors {
		out.Factors = append(out.Factors, PricingFactor{Type: string(f.Type), Multiplier: f.Multiplier, Reason: f.Reason})
	}
	return out
}

func MapRestrictions(rs []rules.Restriction) []Restriction {
	out := make([]Restriction, 0, len(rs))
	for _, r := range rs {
		out = append(out, Restriction{Code: string(r.Code), Message: r.Message})
	}
	return out
}
