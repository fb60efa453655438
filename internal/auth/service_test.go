package auth_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/Affo25/imsdashboard/internal"
	"github.com/Affo25/imsdashboard/internal/auth"
	"github.com/golang-jwt/jwt/v5"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const testSecret = "test-secret-with-at-least-32-characters"

var _ = Describe("JWTTokenService", func() {
	var (
		service *auth.JWTTokenService
		now     time.Time
		alice   internal.Identity
	)

	BeforeEach(func() {
		now = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
		service = auth.NewTokenService(testSecret).WithClock(func() time.Time { return now })
		alice = internal.Identity{UserID: 42, Email: "alice@example.com", Role: "admin"}
	})

	Describe("Issue and Verify", func() {
		It("should round-trip the identity", func() {
			token, err := service.Issue(alice)
			Expect(err).NotTo(HaveOccurred())
			Expect(token).NotTo(BeEmpty())

			claims, err := service.Verify(token)
			Expect(err).NotTo(HaveOccurred())
			Expect(claims.Identity()).To(Equal(alice))
			Expect(claims.Subject).To(Equal("42"))
		})

		It("should expire tokens after seven days", func() {
			token, err := service.Issue(alice)
			Expect(err).NotTo(HaveOccurred())

			claims, err := service.Verify(token)
			Expect(err).NotTo(HaveOccurred())
			Expect(claims.ExpiresAt.Time).To(BeTemporally("==", now.Add(auth.TokenLifetime)))

			now = now.Add(auth.TokenLifetime + time.Second)
			_, err = service.Verify(token)
			Expect(err).To(MatchError(auth.ErrInvalidToken))
		})

		It("should still accept a token just before expiry", func() {
			token, err := service.Issue(alice)
			Expect(err).NotTo(HaveOccurred())

			now = now.Add(auth.TokenLifetime - time.Minute)
			_, err = service.Verify(token)
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("Verify", func() {
		It("should reject an empty token", func() {
			_, err := service.Verify("")
			Expect(err).To(MatchError(auth.ErrInvalidToken))
		})

		It("should reject garbage", func() {
			_, err := service.Verify("not-a-jwt")
			Expect(err).To(MatchError(auth.ErrInvalidToken))
		})

		It("should reject a token with a tampered signature", func() {
			token, err := service.Issue(alice)
			Expect(err).NotTo(HaveOccurred())

			parts := strings.Split(token, ".")
			Expect(parts).To(HaveLen(3))
			sig := []byte(parts[2])
			if sig[0] == 'A' {
				sig[0] = 'B'
			} else {
				sig[0] = 'A'
			}
			tampered := parts[0] + "." + parts[1] + "." + string(sig)

			_, err = service.Verify(tampered)
			Expect(err).To(MatchError(auth.ErrInvalidToken))
		})

		It("should reject a token signed with another secret", func() {
			other := auth.NewTokenService("another-secret-with-32-characters!!").
				WithClock(func() time.Time { return now })
			token, err := other.Issue(alice)
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Verify(token)
			Expect(err).To(MatchError(auth.ErrInvalidToken))
		})

		It("should reject the none algorithm", func() {
			claims := jwt.MapClaims{
				"user_id": 42,
				"role":    "admin",
				"exp":     now.Add(time.Hour).Unix(),
			}
			token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).
				SignedString(jwt.UnsafeAllowNoneSignatureType)
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Verify(token)
			Expect(err).To(MatchError(auth.ErrInvalidToken))
		})

		It("should reject a token without expiry", func() {
			claims := jwt.MapClaims{"user_id": 42, "role": "admin"}
			token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Verify(token)
			Expect(err).To(MatchError(auth.ErrInvalidToken))
		})
	})

	It("should refuse to issue without a secret", func() {
		_, err := auth.NewTokenService("").Issue(alice)
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("ExtractTokenFromRequest", func() {
	It("should read a bearer header", func() {
		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		req.Header.Set("Authorization", "Bearer abc.def.ghi")
		Expect(auth.ExtractTokenFromRequest(req)).To(Equal("abc.def.ghi"))
	})

	It("should accept a lower-case scheme", func() {
		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		req.Header.Set("Authorization", "bearer abc.def.ghi")
		Expect(auth.ExtractTokenFromRequest(req)).To(Equal("abc.def.ghi"))
	})

	It("should fall back to the auth cookie", func() {
		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: "from-cookie"})
		Expect(auth.ExtractTokenFromRequest(req)).To(Equal("from-cookie"))
	})

	It("should prefer the header over the cookie", func() {
		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		req.Header.Set("Authorization", "Bearer from-header")
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: "from-cookie"})
		Expect(auth.ExtractTokenFromRequest(req)).To(Equal("from-header"))
	})

	It("should ignore non-bearer schemes", func() {
		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		Expect(auth.ExtractTokenFromRequest(req)).To(BeEmpty())
	})

	It("should return empty when nothing is presented", func() {
		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		Expect(auth.ExtractTokenFromRequest(req)).To(BeEmpty())
	})
})
