package get_quote

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ConsultationService/internal/testfixtures"
)

type fakeEligibility struct {
	firstTime bool
	err       error
}

func (f fakeEligibility) IsFirstTime(ctx context.Context, clientID string) (bool, error) {
	return f.firstTime, f.err
}

func newUseCase(e fakeEligibility) *UseCase {
	return NewUseCase(testfixtures.NewCalculator(), e, testfixtures.NopLogger{})
}

func TestExecute_PremiumStandardQuote(t *testing.T) {
	uc := newUseCase(fakeEligibility{firstTime: false})

	resp, err := uc.Execute(context.Background(), &Request{ClientID: "C1", ServiceID: "3", Tier: "standard", Country: "India"})
	require.NoError(t, err)
	assert.Equal(t, int64(5738), resp.Amount)
	assert.Equal(t, "INR", resp.Currency)
	assert.Equal(t, 100, resp.CountryMultiplier)
	assert.Equal(t, 150, resp.ServiceMultiplier)
	assert.Equal(t, int64(5100), resp.BasePrice)
	assert.Equal(t, 25, resp.DiscountPercent)
	assert.False(t, resp.FreeTierEligible)
}

func TestExecute_FirstTimeShortIsFree(t *testing.T) {
	uc := newUseCase(fakeEligibility{firstTime: true})

	resp, err := uc.Execute(context.Background(), &Request{ClientID: "C1", ServiceID: "1", Tier: "short", Country: "India"})
	require.NoError(t, err)
	assert.Equal(t, int64(0), resp.Amount)
	assert.True(t, resp.FreeTierEligible)
}

func TestExecute_RepeatShortNotEligible(t *testing.T) {
	uc := newUseCase(fakeEligibility{firstTime: false})

	_, err := uc.Execute(context.Background(), &Request{ClientID: "C1", ServiceID: "1", Tier: "short", Country: "India"})
	assert.ErrorIs(t, err, ErrNotEligibleForFreeTier)
}

func TestExecute_Errors(t *testing.T) {
	tests := []struct {
		name    string
		elig    fakeEligibility
		req     *Request
		wantErr error
	}{
		{name: "unknown service", req: &Request{ClientID: "C1", ServiceID: "42"}, wantErr: ErrServiceNotFound},
		{name: "tier not offered", elig: fakeEligibility{firstTime: true}, req: &Request{ClientID: "C1", ServiceID: "9", Tier: "short"}, wantErr: ErrTierNotOffered},
		{name: "unknown tier", req: &Request{ClientID: "C1", ServiceID: "1", Tier: "long"}, wantErr: ErrInvalidInput},
		{name: "no client", req: &Request{ServiceID: "1"}, wantErr: ErrInvalidInput},
		{name: "no service", req: &Request{ClientID: "C1"}, wantErr: ErrInvalidInput},
		{name: "eligibility error", elig: fakeEligibility{err: errors.New("db down")}, req: &Request{ClientID: "C1", ServiceID: "1"}, wantErr: ErrInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newUseCase(tt.elig).Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
