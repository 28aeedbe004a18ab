package settingsservice_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"vitrine/internal/domain"
	apperror "vitrine/internal/errors"
	"vitrine/internal/pkg/logger"
	"vitrine/internal/service/settingsservice"
)

type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) LoadSettings(ctx context.Context) (domain.StoreSettings, bool, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.StoreSettings), args.Bool(1), args.Error(2)
}

func (m *MockSettingsRepository) SaveSettings(ctx context.Context, settings domain.StoreSettings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

var defaults = domain.StoreSettings{
	StoreName:      "Vitrine",
	WhatsAppNumber: "+55 (11) 99999-8888",
	ShippingFee:    decimal.RequireFromString("19.90"),
}

func TestLoad_KeepsDefaultsWhenNothingStored(t *testing.T) {
	repo := new(MockSettingsRepository)
	repo.On("LoadSettings", mock.Anything).Return(domain.StoreSettings{}, false, nil)
	svc := settingsservice.NewService(repo, logger.NewNopLogger(), defaults)

	require.NoError(t, svc.Load(context.Background()))

	got := svc.Get(context.Background())
	assert.Equal(t, "Vitrine", got.StoreName)
	assert.Equal(t, "5511999998888", got.WhatsAppNumber)
}

func TestLoad_UsesStoredSettings(t *testing.T) {
	repo := new(MockSettingsRepository)
	stored := domain.StoreSettings{StoreName: "Loja da Ana", WhatsAppNumber: "5521988887777"}
	repo.On("LoadSettings", mock.Anything).Return(stored, true, nil)
	svc := settingsservice.NewService(repo, logger.NewNopLogger(), defaults)

	require.NoError(t, svc.Load(context.Background()))

	assert.Equal(t, stored, svc.Get(context.Background()))
}

func TestLoad_RepositoryError(t *testing.T) {
	repo := new(MockSettingsRepository)
	repo.On("LoadSettings", mock.Anything).Return(domain.StoreSettings{}, false, errors.New("boom"))
	svc := settingsservice.NewService(repo, logger.NewNopLogger(), defaults)

	err := svc.Load(context.Background())

	assert.IsType(t, &apperror.InternalError{}, err)
}

func TestUpdate_NormalizesAndPersists(t *testing.T) {
	repo := new(MockSettingsRepository)
	repo.On("SaveSettings", mock.Anything, mock.Anything).Return(nil).Once()
	svc := settingsservice.NewService(repo, logger.NewNopLogger(), defaults)

	got, err := svc.Update(context.Background(), domain.StoreSettings{
		StoreName:        "  Loja   Nova ",
		WhatsAppNumber:   "55 21 98888-7777",
		ContactEmail:     "Contato <contato@loja.com.br>",
		ShippingFee:      decimal.RequireFromString("15"),
		FreeShippingFrom: decimal.RequireFromString("299"),
	})

	require.NoError(t, err)
	assert.Equal(t, "Loja Nova", got.StoreName)
	assert.Equal(t, "5521988887777", got.WhatsAppNumber)
	assert.Equal(t, "contato@loja.com.br", got.ContactEmail)
	assert.Equal(t, got, svc.Get(context.Background()))
	repo.AssertExpectations(t)
}

func TestUpdate_ValidationFailures(t *testing.T) {
	cases := map[string]domain.StoreSettings{
		"nome curto":        {StoreName: "A", WhatsAppNumber: "5511999998888"},
		"whatsapp curto":    {StoreName: "Loja", WhatsAppNumber: "12345"},
		"whatsapp longo":    {StoreName: "Loja", WhatsAppNumber: "55119999988887777"},
		"e-mail inválido":   {StoreName: "Loja", WhatsAppNumber: "5511999998888", ContactEmail: "sem-arroba"},
		"frete negativo":    {StoreName: "Loja", WhatsAppNumber: "5511999998888", ShippingFee: decimal.RequireFromString("-1")},
		"frete grátis neg.": {StoreName: "Loja", WhatsAppNumber: "5511999998888", FreeShippingFrom: decimal.RequireFromString("-5")},
	}

	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			repo := new(MockSettingsRepository)
			svc := settingsservice.NewService(repo, logger.NewNopLogger(), defaults)

			_, err := svc.Update(context.Background(), in)

			assert.IsType(t, &apperror.ValidationError{}, err)
			assert.Equal(t, "Vitrine", svc.Get(context.Background()).StoreName)
			repo.AssertNotCalled(t, "SaveSettings", mock.Anything, mock.Anything)
		})
	}
}

func TestShippingFor(t *testing.T) {
	s := domain.StoreSettings{
		ShippingFee:      decimal.RequireFromString("19.90"),
		FreeShippingFrom: decimal.RequireFromString("200"),
	}

	assert.True(t, s.ShippingFor(decimal.RequireFromString("199.99")).Equal(decimal.RequireFromString("19.90")))
	assert.True(t, s.ShippingFor(decimal.RequireFromString("200")).IsZero())

	s.FreeShippingFrom = decimal.Zero
	assert.True(t, s.ShippingFor(decimal.RequireFromString("10000")).Equal(decimal.RequireFromString("19.90")))
}
