package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"auction-bot/internal/auctionerrors"
	model "auction-bot/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
)

func setupRouter(h *AuctionHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/items", h.ListItemsHandler)
	router.GET("/items/:name/bids", h.GetBidsByItemHandler)
	router.GET("/items/:name/winning", h.GetWinningBidHandler)
	return router
}

func doGet(t *testing.T, router *gin.Engine, url string) (map[string]any, *httptest.ResponseRecorder) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp map[string]any
	if len(w.Body.Bytes()) > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return resp, w
}

// Test ListItemsHandler
func TestListItemsHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := NewMockAuctionQueryService(ctrl)
	router := setupRouter(NewAuctionHandler(mockService))

	end := time.Now().UTC().Add(time.Hour)

	tests := []struct {
		name           string
		mockSetup      func()
		expectedStatus int
		expectedCount  int
	}{
		{
			name: "success_with_items",
			mockSetup: func() {
				mockService.EXPECT().ListItems().Return([]model.Item{
					{Name: "lamp", LowAmount: 10, HighAmount: 100},
					{Name: "vase", LowAmount: 5, HighAmount: 50, EndTime: &end,
						HighestBid: &model.Bid{Amount: 30}},
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedCount:  2,
		},
		{
			name: "success_empty",
			mockSetup: func() {
				mockService.EXPECT().ListItems().Return(nil, nil)
			},
			expectedStatus: http.StatusOK,
			expectedCount:  0,
		},
		{
			name: "service_error",
			mockSetup: func() {
				mockService.EXPECT().ListItems().Return(nil, errors.New("db down"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			tc.mockSetup()

			resp, w := doGet(t, router, "/items")
			require.Equal(t, tc.expectedStatus, w.Code)

			if tc.expectedStatus == http.StatusOK {
				data := resp["data"].([]any)
				require.Len(t, data, tc.expectedCount)
			}
		})
	}
}

// Test GetBidsByItemHandler
func TestGetBidsByItemHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := NewMockAuctionQueryService(ctrl)
	router := setupRouter(NewAuctionHandler(mockService))

	t.Run("with_bids", func(t *testing.T) {
		mockService.EXPECT().GetBidsForItem("lamp").Return([]model.Bid{
			{BidID: "bid1", ItemName: "lamp", UserID: 1, Amount: 20, CreatedAt: time.Now().UTC()},
			{BidID: "bid2", ItemName: "lamp", UserID: 2, Amount: 30, CreatedAt: time.Now().UTC()},
		}, nil)

		resp, w := doGet(t, router, "/items/lamp/bids")
		require.Equal(t, http.StatusOK, w.Code)
		require.Len(t, resp["data"].([]any), 2)
	})

	t.Run("no_bids_is_empty_list", func(t *testing.T) {
		mockService.EXPECT().GetBidsForItem("lamp").
			Return(nil, fmt.Errorf("service: %w", auctionerrors.ErrNoBids))

		resp, w := doGet(t, router, "/items/lamp/bids")
		require.Equal(t, http.StatusOK, w.Code)
		require.Len(t, resp["data"].([]any), 0)
	})

	t.Run("service_error", func(t *testing.T) {
		mockService.EXPECT().GetBidsForItem("lamp").Return(nil, errors.New("db down"))

		_, w := doGet(t, router, "/items/lamp/bids")
		require.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

// Test GetWinningBidHandler
func TestGetWinningBidHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := NewMockAuctionQueryService(ctrl)
	router := setupRouter(NewAuctionHandler(mockService))

	t.Run("with_winning_bid", func(t *testing.T) {
		mockService.EXPECT().WinningBid("lamp").Return(model.Bid{
			BidID:     "bid1",
			ItemName:  "lamp",
			UserID:    2,
			Amount:    60,
			CreatedAt: time.Now().UTC(),
		}, nil)

		resp, w := doGet(t, router, "/items/lamp/winning")
		require.Equal(t, http.StatusOK, w.Code)

		data := resp["data"].(map[string]any)
		require.Equal(t, "bid1", data["bid_id"])
		require.Equal(t, 60.0, data["amount"])

		_, err := time.Parse(time.RFC3339, data["created_at"].(string))
		require.NoError(t, err)
	})

	t.Run("no_bids_is_404", func(t *testing.T) {
		mockService.EXPECT().WinningBid("lamp").
			Return(model.Bid{}, fmt.Errorf("service: %w", auctionerrors.ErrNoBids))

		_, w := doGet(t, router, "/items/lamp/winning")
		require.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("unknown_item_is_404", func(t *testing.T) {
		mockService.EXPECT().WinningBid("ghost").
			Return(model.Bid{}, fmt.Errorf("service: %w", auctionerrors.ErrItemNotFound))

		_, w := doGet(t, router, "/items/ghost/winning")
		require.Equal(t, http.StatusNotFound, w.Code)
	})
}
