package mappings_test

import (
	"errors"
	"testing"

	apimappings "github.com/mindgarden/consultation/pkg/api/types/mappings"
	"github.com/mindgarden/consultation/pkg/domain"
	domerr "github.com/mindgarden/consultation/pkg/domain/errors"
	"github.com/mindgarden/consultation/pkg/utils/try"
)

func TestCompose(t *testing.T) {
	m := domain.Mapping{
		Id: 1, ConsultantId: 2, ClientId: 3,
		Status:        domain.Active,
		PackageName:   "basic",
		PackagePrice:  500000,
		TotalSessions: 10,
		UsedSessions:  4,
	}
	actual := apimappings.Compose(m)
	if actual.RemainingSessions != 6 {
		t.Errorf("remaining sessions: %d", actual.RemainingSessions)
	}
	if actual.Payment != nil || actual.ApprovedAt != nil || actual.TerminatedAt != nil {
		t.Errorf("unexpected optional fields: %+v", actual)
	}
}

func TestPaymentRequest_ToPayment(t *testing.T) {
	t.Run("method is case-insensitive", func(t *testing.T) {
		p := try.To(apimappings.PaymentRequest{Method: "bank_transfer", Amount: 100}.ToPayment()).OrFatal(t)
		if p.Method != domain.BankTransfer {
			t.Errorf("unexpected method: %s", p.Method)
		}
	})

	for name, req := range map[string]apimappings.PaymentRequest{
		"unknown method":  {Method: "coupon", Amount: 100},
		"negative amount": {Method: "CASH", Amount: -1},
	} {
		t.Run("it rejects "+name, func(t *testing.T) {
			if _, err := req.ToPayment(); !errors.Is(err, domerr.ErrInvalidValue) {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestCreateRequest_ToSpec(t *testing.T) {
	for name, req := range map[string]apimappings.CreateRequest{
		"same consultant and client": {ConsultantId: 2, ClientId: 2, TotalSessions: 10},
		"no sessions":                {ConsultantId: 2, ClientId: 3, TotalSessions: 0},
		"negative price":             {ConsultantId: 2, ClientId: 3, TotalSessions: 10, PackagePrice: -1},
	} {
		t.Run("it rejects "+name, func(t *testing.T) {
			if _, err := req.ToSpec(); !errors.Is(err, domerr.ErrInvalidValue) {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestExtendRequest_ToExtension(t *testing.T) {
	if _, err := (apimappings.ExtendRequest{Sessions: 0}).ToExtension(); !errors.Is(err, domerr.ErrInvalidValue) {
		t.Errorf("unexpected error: %v", err)
	}
	ext := try.To(apimappings.ExtendRequest{Sessions: 5, Price: 250000}.ToExtension()).OrFatal(t)
	if ext.Sessions != 5 || ext.Price != 250000 {
		t.Errorf("unexpected extension: %+v", ext)
	}
}
