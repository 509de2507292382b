package mappings

import (
	"fmt"

	"github.com/mindgarden/consultation/pkg/domain"
	domerr "github.com/mindgarden/consultation/pkg/domain/errors"
	"github.com/mindgarden/consultation/pkg/utils/rfctime"
)

type Payment struct {
	Method      string          `json:"method"`
	Reference   string          `json:"reference,omitempty"`
	Amount      int64           `json:"amount"`
	ConfirmedAt rfctime.RFC3339 `json:"confirmedAt"`
}

type Mapping struct {
	MappingId         int64            `json:"mappingId"`
	ConsultantId      int64            `json:"consultantId"`
	ConsultantName    string           `json:"consultantName"`
	ClientId          int64            `json:"clientId"`
	ClientName        string           `json:"clientName"`
	Status            string           `json:"status"`
	PackageName       string           `json:"packageName"`
	PackagePrice      int64            `json:"packagePrice"`
	TotalSessions     int              `json:"totalSessions"`
	UsedSessions      int              `json:"usedSessions"`
	RemainingSessions int              `json:"remainingSessions"`
	Payment           *Payment         `json:"payment,omitempty"`
	ApprovedBy        string           `json:"approvedBy,omitempty"`
	ApprovedAt        *rfctime.RFC3339 `json:"approvedAt,omitempty"`
	TerminatedAt      *rfctime.RFC3339 `json:"terminatedAt,omitempty"`
	Notes             string           `json:"notes,omitempty"`
	CreatedAt         rfctime.RFC3339  `json:"createdAt"`
	UpdatedAt         rfctime.RFC3339  `json:"updatedAt"`
}

func Compose(m domain.Mapping) Mapping {
	var payment *Payment
	if p := m.Payment; p != nil {
		payment = &Payment{
			Method:      string(p.Method),
			Reference:   p.Reference,
			Amount:      p.Amount,
			ConfirmedAt: rfctime.RFC3339(p.ConfirmedAt),
		}
	}
	return Mapping{
		MappingId:         int64(m.Id),
		ConsultantId:      int64(m.ConsultantId),
		ConsultantName:    m.ConsultantName,
		ClientId:          int64(m.ClientId),
		ClientName:        m.ClientName,
		Status:            string(m.Status),
		PackageName:       m.PackageName,
		PackagePrice:      m.PackagePrice,
		TotalSessions:     m.TotalSessions,
		UsedSessions:      m.UsedSessions,
		RemainingSessions: m.RemainingSessions(),
		Payment:           payment,
		ApprovedBy:        m.ApprovedBy,
		ApprovedAt:        rfctime.Ref(m.ApprovedAt),
		TerminatedAt:      rfctime.Ref(m.TerminatedAt),
		Notes:             m.Notes,
		CreatedAt:         rfctime.RFC3339(m.CreatedAt),
		UpdatedAt:         rfctime.RFC3339(m.UpdatedAt),
	}
}

func ComposeList(ms []domain.Mapping) []Mapping {
	ret := make([]Mapping, 0, len(ms))
	for _, m := range ms {
		ret = append(ret, Compose(m))
	}
	return ret
}

func (m *Mapping) Equal(o *Mapping) bool {
	if m == nil || o == nil {
		return m == nil && o == nil
	}
	eqPayment := func(a, b *Payment) bool {
		if a == nil || b == nil {
			return a == nil && b == nil
		}
		return a.Method == b.Method &&
			a.Reference == b.Reference &&
			a.Amount == b.Amount &&
			a.ConfirmedAt.Equal(&b.ConfirmedAt)
	}
	return m.MappingId == o.MappingId &&
		m.ConsultantId == o.ConsultantId &&
		m.ConsultantName == o.ConsultantName &&
		m.ClientId == o.ClientId &&
		m.ClientName == o.ClientName &&
		m.Status == o.Status &&
		m.PackageName == o.PackageName &&
		m.PackagePrice == o.PackagePrice &&
		m.TotalSessions == o.TotalSessions &&
		m.UsedSessions == o.UsedSessions &&
		m.RemainingSessions == o.RemainingSessions &&
		eqPayment(m.Payment, o.Payment) &&
		m.ApprovedBy == o.ApprovedBy &&
		m.ApprovedAt.Equal(o.ApprovedAt) &&
		m.TerminatedAt.Equal(o.TerminatedAt) &&
		m.Notes == o.Notes &&
		m.CreatedAt.Equal(&o.CreatedAt) &&
		m.UpdatedAt.Equal(&o.UpdatedAt)
}

// CreateRequest is the body of "POST /api/mappings".
type CreateRequest struct {
	ConsultantId  int64  `json:"consultantId"`
	ClientId      int64  `json:"clientId"`
	PackageName   string `json:"packageName"`
	PackagePrice  int64  `json:"packagePrice"`
	TotalSessions int    `json:"totalSessions"`
	Notes         string `json:"notes,omitempty"`
}

func (r CreateRequest) ToSpec() (domain.MappingSpec, error) {
	spec := domain.MappingSpec{
		ConsultantId:  domain.UserId(r.ConsultantId),
		ClientId:      domain.UserId(r.ClientId),
		PackageName:   r.PackageName,
		PackagePrice:  r.PackagePrice,
		TotalSessions: r.TotalSessions,
		Notes:         r.Notes,
	}
	if err := spec.Validate(); err != nil {
		return domain.MappingSpec{}, err
	}
	return spec, nil
}

// PaymentRequest is the body of "PUT /api/mappings/:mappingId/payment".
type PaymentRequest struct {
	Method    string `json:"method"`
	Reference string `json:"reference,omitempty"`
	Amount    int64  `json:"amount"`
}

func (r PaymentRequest) ToPayment() (domain.Payment, error) {
	method, err := domain.AsPaymentMethod(r.Method)
	if err != nil {
		return domain.Payment{}, err
	}
	if r.Amount < 0 {
		return domain.Payment{}, fmt.Errorf("%w: amount should not be negative", domerr.ErrInvalidValue)
	}
	return domain.Payment{Method: method, Reference: r.Reference, Amount: r.Amount}, nil
}

// PaymentResult is the response of payment confirmation.
type PaymentResult struct {
	Mapping Mapping `json:"mapping"`

	// true when paid amount differs from the package price.
	AmountMismatch bool `json:"amountMismatch"`
}

type ReasonRequest struct {
	Reason string `json:"reason,omitempty"`
}

// ExtendRequest is the body of "PUT /api/mappings/:mappingId/sessions/extend".
type ExtendRequest struct {
	Sessions    int    `json:"sessions"`
	PackageName string `json:"packageName,omitempty"`
	Price       int64  `json:"price"`
}

func (r ExtendRequest) ToExtension() (domain.Extension, error) {
	if r.Sessions <= 0 {
		return domain.Extension{}, fmt.Errorf("%w: sessions should be positive", domerr.ErrInvalidValue)
	}
	if r.Price < 0 {
		return domain.Extension{}, fmt.Errorf("%w: price should not be negative", domerr.ErrInvalidValue)
	}
	return domain.Extension{Sessions: r.Sessions, PackageName: r.PackageName, Price: r.Price}, nil
}

// RefundRequest is the body of "PUT /api/mappings/:mappingId/refund".
type RefundRequest struct {
	Sessions int    `json:"sessions"`
	Reason   string `json:"reason,omitempty"`
}

type Refund struct {
	MappingId int64 `json:"mappingId"`
	Sessions  int   `json:"sessions"`
	Amount    int64 `json:"amount"`
}

func ComposeRefund(r domain.Refund) Refund {
	return Refund{MappingId: int64(r.MappingId), Sessions: r.Sessions, Amount: r.Amount}
}
