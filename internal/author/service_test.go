package author

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
)

func TestService_GetByID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	service := NewService(mockRepo)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		mockRepo.EXPECT().GetByID(ctx, int64(1)).Return(Author{ID: 1, Name: "Machado de Assis"}, nil)

		a, found, err := service.GetByID(ctx, 1)
		assert.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "Machado de Assis", a.Name)
	})

	t.Run("absent is not an error", func(t *testing.T) {
		mockRepo.EXPECT().GetByID(ctx, int64(2)).Return(Author{}, ErrNotFound)

		_, found, err := service.GetByID(ctx, 2)
		assert.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("store failure", func(t *testing.T) {
		mockRepo.EXPECT().GetByID(ctx, int64(3)).Return(Author{}, errors.New("db error"))

		_, found, err := service.GetByID(ctx, 3)
		assert.Error(t, err)
		assert.False(t, found)
	})
}

func TestService_ListByYear(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	service := NewService(mockRepo)

	mockRepo.EXPECT().ListAliveInYear(gomock.Any(), 1850).Return([]Author{{ID: 1}}, nil)

	authors, err := service.ListByYear(context.Background(), 1850)
	assert.NoError(t, err)
	assert.Len(t, authors, 1)
}

func TestService_Count(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	service := NewService(mockRepo)

	mockRepo.EXPECT().Count(gomock.Any()).Return(12, nil)

	n, err := service.Count(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 12, n)
}
