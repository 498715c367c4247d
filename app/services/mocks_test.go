package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/shashiranjanraj/lojinha/app/models"
)

type mockVerifier struct{ mock.Mock }

func (m *mockVerifier) VerifyToken(ctx context.Context, token string) (models.User, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(models.User), args.Error(1)
}

type mockCatalog struct{ mock.Mock }

func (m *mockCatalog) Find(ctx context.Context, id int) (models.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Product), args.Error(1)
}

type mockPayments struct{ mock.Mock }

func (m *mockPayments) Process(ctx context.Context, order models.Order, card *models.CardData) error {
	return m.Called(ctx, order, card).Error(0)
}
