package auth

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/lshigami/Linnet/internal/dto"
)

// ContextKeyCandidateID is where the middleware stores the
// authenticated candidate's ID on the gin context.
const ContextKeyCandidateID = "candidateID"

type Claims struct {
	CandidateID uint `json:"candidate_id"`
	jwt.RegisteredClaims
}

// Service issues and parses the short-lived exam-session tokens a
// candidate receives after logging in with an access code.
type Service struct {
	hmac []byte
}

func NewService(secret string) *Service {
	return &Service{hmac: []byte(secret)}
}

func (s *Service) IssueToken(candidateID uint, validFor time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		CandidateID: candidateID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(candidateID), 10),
			Issuer:    "linnet-exam",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validFor)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.hmac)
}

func (s *Service) Parse(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return s.hmac, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("parsing session token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid session token")
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, fmt.Errorf("unexpected claims type")
	}
	return claims, nil
}

// CandidateMiddleware guards the candidate exam routes. The candidate
// ID always comes from the verified token, never from the request
// body.
func CandidateMiddleware(s *Service) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		tokenStr, found := strings.CutPrefix(header, "Bearer ")
		if !found || tokenStr == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Missing bearer token"})
			return
		}
		claims, err := s.Parse(tokenStr)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Invalid or expired session token"})
			return
		}
		ctx.Set(ContextKeyCandidateID, claims.CandidateID)
		ctx.Next()
	}
}

// CandidateID extracts the authenticated candidate ID placed by the
// middleware.
func CandidateID(ctx *gin.Context) (uint, bool) {
	v, ok := ctx.Get(ContextKeyCandidateID)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}
