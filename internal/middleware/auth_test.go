package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/2beens/admingate/internal/auth"
	"github.com/2beens/admingate/internal/middleware"
	"github.com/2beens/admingate/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestAuthMiddlewareHandler_AuthCheck(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockVerifier := NewMocksessionVerifier(ctrl)
	authMiddleware := middleware.NewAuthMiddlewareHandler(mockVerifier)

	adminClaims := &auth.Claims{IsAdmin: true}
	nonAdminClaims := &auth.Claims{IsAdmin: false}

	testCases := []struct {
		name               string
		path               string
		method             string
		cookieValue        string
		mockClaims         *auth.Claims
		mockVerifyErr      error
		expectedStatusCode int
		expectedLocation   string
		expectCookieClear  bool
	}{
		{
			name:               "LoginPageWithoutCookie",
			path:               "/login",
			method:             "GET",
			expectedStatusCode: http.StatusOK,
		},
		{
			name:               "LoginEndpointWithoutCookie",
			path:               "/api/auth/login",
			method:             "POST",
			expectedStatusCode: http.StatusOK,
		},
		{
			name:               "LogoutEndpointWithoutCookie",
			path:               "/api/auth/logout",
			method:             "POST",
			expectedStatusCode: http.StatusOK,
		},
		{
			name:               "StaticAssetWithoutCookie",
			path:               "/static/style.css",
			method:             "GET",
			expectedStatusCode: http.StatusOK,
		},
		{
			name:               "UnmatchedPathPassesThrough",
			path:               "/some/other/path",
			method:             "GET",
			expectedStatusCode: http.StatusOK,
		},
		{
			name:               "DashboardWithoutCookie",
			path:               "/dashboard",
			method:             "GET",
			expectedStatusCode: http.StatusSeeOther,
			expectedLocation:   "/login?from=%2Fdashboard",
		},
		{
			name:               "AppsAPIWithoutCookie",
			path:               "/api/apps",
			method:             "GET",
			expectedStatusCode: http.StatusUnauthorized,
		},
		{
			name:               "GenerateLinkAPIWithoutCookie",
			path:               "/api/generate-link",
			method:             "POST",
			expectedStatusCode: http.StatusUnauthorized,
		},
		{
			name:               "AppsAPIWithValidToken",
			path:               "/api/apps",
			method:             "GET",
			cookieValue:        "valid-token",
			mockClaims:         adminClaims,
			expectedStatusCode: http.StatusOK,
		},
		{
			name:               "DashboardWithValidToken",
			path:               "/dashboard",
			method:             "GET",
			cookieValue:        "valid-token",
			mockClaims:         adminClaims,
			expectedStatusCode: http.StatusOK,
		},
		{
			name:               "AppsAPIWithInvalidToken",
			path:               "/api/apps",
			method:             "GET",
			cookieValue:        "invalid-token",
			mockVerifyErr:      auth.ErrInvalidToken,
			expectedStatusCode: http.StatusUnauthorized,
			expectCookieClear:  true,
		},
		{
			name:               "DashboardWithInvalidToken",
			path:               "/dashboard",
			method:             "GET",
			cookieValue:        "invalid-token",
			mockVerifyErr:      auth.ErrInvalidToken,
			expectedStatusCode: http.StatusSeeOther,
			expectedLocation:   "/login?from=%2Fdashboard",
			expectCookieClear:  true,
		},
		{
			name:               "AppsAPIWithNonAdminToken",
			path:               "/api/apps",
			method:             "GET",
			cookieValue:        "non-admin-token",
			mockClaims:         nonAdminClaims,
			expectedStatusCode: http.StatusUnauthorized,
			expectCookieClear:  true,
		},
		{
			name:               "OptionsPreflight",
			path:               "/api/apps",
			method:             "OPTIONS",
			expectedStatusCode: http.StatusOK,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req, err := http.NewRequest(tc.method, tc.path, nil)
			require.NoError(t, err)

			if tc.cookieValue != "" {
				req.AddCookie(&http.Cookie{Name: session.CookieName, Value: tc.cookieValue})
				mockVerifier.EXPECT().
					Verify(tc.cookieValue).
					Return(tc.mockClaims, tc.mockVerifyErr)
			}

			rr := httptest.NewRecorder()
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
			authMiddleware.AuthCheck()(handler).ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatusCode, rr.Code)

			if tc.expectedLocation != "" {
				assert.Equal(t, tc.expectedLocation, rr.Header().Get("Location"))
			}

			if tc.expectedStatusCode == http.StatusUnauthorized {
				assert.JSONEq(t, `{"error":"unauthorized"}`, rr.Body.String())
			}

			if tc.expectCookieClear {
				cookies := rr.Result().Cookies()
				require.Len(t, cookies, 1)
				assert.Equal(t, session.CookieName, cookies[0].Name)
				assert.Empty(t, cookies[0].Value)
				assert.Negative(t, cookies[0].MaxAge)
			} else {
				assert.Empty(t, rr.Result().Cookies())
			}
		})
	}
}

// any panic or unexpected error inside verification must look exactly like an
// invalid token to the client
func TestAuthMiddlewareHandler_verifierErrorNotLeaked(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockVerifier := NewMocksessionVerifier(ctrl)
	authMiddleware := middleware.NewAuthMiddlewareHandler(mockVerifier)

	req, err := http.NewRequest("GET", "/api/apps", nil)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: "some-token"})

	mockVerifier.EXPECT().
		Verify("some-token").
		Return(nil, assert.AnError)

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	authMiddleware.AuthCheck()(handler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.JSONEq(t, `{"error":"unauthorized"}`, rr.Body.String())
	assert.NotContains(t, rr.Body.String(), assert.AnError.Error())
}
