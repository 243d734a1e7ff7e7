package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"shareride/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testSecret = "test-secret"

func newAuthTestRouter(extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	chain := append([]gin.HandlerFunc{AuthRequired(testSecret)}, extra...)
	chain = append(chain, func(c *gin.Context) {
		userID, ok := CurrentUserID(c)
		if !ok {
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": userID.Hex()})
	})
	router.GET("/protected", chain...)
	return router
}

func doRequest(router *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestAuthRequiredRejectsMissingHeader(t *testing.T) {
	router := newAuthTestRouter()
	recorder := doRequest(router, "")
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestAuthRequiredRejectsNonBearerHeader(t *testing.T) {
	router := newAuthTestRouter()
	recorder := doRequest(router, "Basic dXNlcjpwYXNz")
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestAuthRequiredRejectsGarbageToken(t *testing.T) {
	router := newAuthTestRouter()
	recorder := doRequest(router, "Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestAuthRequiredRejectsWrongSecret(t *testing.T) {
	tokens, err := utils.GenerateTokenPair(primitive.NewObjectID(), "user", "a@example.com", "another-secret")
	require.NoError(t, err)

	router := newAuthTestRouter()
	recorder := doRequest(router, "Bearer "+tokens.AccessToken)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestAuthRequiredAcceptsValidToken(t *testing.T) {
	userID := primitive.NewObjectID()
	tokens, err := utils.GenerateTokenPair(userID, "user", "a@example.com", testSecret)
	require.NoError(t, err)

	router := newAuthTestRouter()
	recorder := doRequest(router, "Bearer "+tokens.AccessToken)
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), userID.Hex())
}

func TestDriverRequired(t *testing.T) {
	router := newAuthTestRouter(DriverRequired())

	userTokens, err := utils.GenerateTokenPair(primitive.NewObjectID(), "user", "u@example.com", testSecret)
	require.NoError(t, err)
	recorder := doRequest(router, "Bearer "+userTokens.AccessToken)
	assert.Equal(t, http.StatusForbidden, recorder.Code)

	driverTokens, err := utils.GenerateTokenPair(primitive.NewObjectID(), "driver", "d@example.com", testSecret)
	require.NoError(t, err)
	recorder = doRequest(router, "Bearer "+driverTokens.AccessToken)
	assert.Equal(t, http.StatusOK, recorder.Code)

	// Admins pass role gates.
	adminTokens, err := utils.GenerateTokenPair(primitive.NewObjectID(), "admin", "adm@example.com", testSecret)
	require.NoError(t, err)
	recorder = doRequest(router, "Bearer "+adminTokens.AccessToken)
	assert.Equal(t, http.StatusOK, recorder.Code)
}
