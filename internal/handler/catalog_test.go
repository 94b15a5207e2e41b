package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"location-dedup/internal/catalog"
	"location-dedup/internal/models"
	"location-dedup/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCatalogService is a mock implementation of the CatalogService interface
type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) List(ctx context.Context, q service.Query) (catalog.Page, error) {
	args := m.Called(ctx, q)
	return args.Get(0).(catalog.Page), args.Error(1)
}

func (m *MockCatalogService) Get(ctx context.Context, id string) (*models.Location, error) {
	args := m.Called(ctx, id)
	loc, _ := args.Get(0).(*models.Location)
	return loc, args.Error(1)
}

func (m *MockCatalogService) Nearby(ctx context.Context, lat, lon, radiusKm float64) ([]models.Location, error) {
	args := m.Called(ctx, lat, lon, radiusKm)
	locs, _ := args.Get(0).([]models.Location)
	return locs, args.Error(1)
}

func TestCatalogHandler_ListLocations(t *testing.T) {
	gin.SetMode(gin.TestMode)

	page := catalog.Page{
		Locations:  []models.Location{{ID: "1", Name: "Bosch", City: "Stuttgart"}},
		Total:      21,
		Page:       2,
		PageSize:   20,
		TotalPages: 2,
	}

	tests := []struct {
		name           string
		rawQuery       string
		expectQuery    *service.Query
		mockError      error
		expectedStatus int
	}{
		{
			name:           "defaults",
			rawQuery:       "",
			expectQuery:    &service.Query{},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "all parameters",
			rawQuery:       "search=bosch&sort=city&page=2&page_size=20",
			expectQuery:    &service.Query{Search: "bosch", SortBy: "city", Page: 2, PageSize: 20},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "invalid page",
			rawQuery:       "page=zero",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "negative page size",
			rawQuery:       "page_size=-5",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid sort",
			rawQuery:       "sort=postal",
			expectQuery:    &service.Query{SortBy: "postal"},
			mockError:      fmt.Errorf("%w: %q", catalog.ErrInvalidSort, "postal"),
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "upstream failure",
			rawQuery:       "",
			expectQuery:    &service.Query{},
			mockError:      fmt.Errorf("service: failed to load locations: %w: %w", service.ErrUpstream, assert.AnError),
			expectedStatus: http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(MockCatalogService)
			handler := NewCatalogHandler(mockSvc)

			if tt.expectQuery != nil {
				mockSvc.On("List", mock.Anything, *tt.expectQuery).Return(page, tt.mockError)
			}

			req := httptest.NewRequest(http.MethodGet, "/api/v1/locations?"+tt.rawQuery, nil)
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = req

			handler.ListLocations(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				var got catalog.Page
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
				assert.Equal(t, page, got)
			}

			if tt.expectQuery != nil {
				mockSvc.AssertExpectations(t)
			} else {
				mockSvc.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
			}
		})
	}
}

func TestCatalogHandler_GetLocation(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		id             string
		mockLocation   *models.Location
		mockError      error
		expectedStatus int
		expectedBody   interface{}
	}{
		{
			name:           "found",
			id:             "loc-1",
			mockLocation:   &models.Location{ID: "loc-1", Name: "Bosch"},
			expectedStatus: http.StatusOK,
			expectedBody: map[string]interface{}{
				"id": "loc-1", "customer_name": "Bosch", "address": "", "city": "", "postal_code": "", "country": "",
			},
		},
		{
			name:           "not found",
			id:             "missing",
			expectedStatus: http.StatusNotFound,
			expectedBody:   map[string]interface{}{"error": "location not found"},
		},
		{
			name:           "service error",
			id:             "loc-1",
			mockError:      assert.AnError,
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   map[string]interface{}{"error": "internal server error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(MockCatalogService)
			handler := NewCatalogHandler(mockSvc)
			mockSvc.On("Get", mock.Anything, tt.id).Return(tt.mockLocation, tt.mockError)

			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/locations/"+tt.id, nil)
			c.Params = gin.Params{{Key: "id", Value: tt.id}}

			handler.GetLocation(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
			var actualBody interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &actualBody))
			assert.Equal(t, tt.expectedBody, actualBody)
			mockSvc.AssertExpectations(t)
		})
	}
}

func TestCatalogHandler_NearbyLocations(t *testing.T) {
	gin.SetMode(gin.TestMode)

	nearby := []models.Location{{ID: "loc-1", Name: "Depot"}}

	tests := []struct {
		name           string
		rawQuery       string
		expectArgs     []interface{}
		mockError      error
		expectedStatus int
	}{
		{
			name:           "missing coordinates",
			rawQuery:       "lat=52.5",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid latitude",
			rawQuery:       "lat=north&lon=13.4",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid radius",
			rawQuery:       "lat=52.5&lon=13.4&radius_km=wide",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "NaN radius",
			rawQuery:       "lat=52.5&lon=13.4&radius_km=NaN",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "infinite radius",
			rawQuery:       "lat=52.5&lon=13.4&radius_km=Inf",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "default radius",
			rawQuery:       "lat=52.5&lon=13.4",
			expectArgs:     []interface{}{52.5, 13.4, 1.0},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "explicit radius",
			rawQuery:       "lat=52.5&lon=13.4&radius_km=2.5",
			expectArgs:     []interface{}{52.5, 13.4, 2.5},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "non-positive radius",
			rawQuery:       "lat=52.5&lon=13.4&radius_km=-1",
			expectArgs:     []interface{}{52.5, 13.4, -1.0},
			mockError:      service.ErrInvalidRadius,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "out of range",
			rawQuery:       "lat=95&lon=13.4",
			expectArgs:     []interface{}{95.0, 13.4, 1.0},
			mockError:      fmt.Errorf("%w: 95, 13.4", service.ErrInvalidCoordinates),
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(MockCatalogService)
			handler := NewCatalogHandler(mockSvc)

			if tt.expectArgs != nil {
				args := append([]interface{}{mock.Anything}, tt.expectArgs...)
				mockSvc.On("Nearby", args...).Return(nearby, tt.mockError)
			}

			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/locations/nearby?"+tt.rawQuery, nil)

			handler.NearbyLocations(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				var got []models.Location
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
				assert.Equal(t, nearby, got)
			}
			if tt.expectArgs != nil {
				mockSvc.AssertExpectations(t)
			}
		})
	}
}
