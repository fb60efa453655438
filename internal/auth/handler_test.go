package auth_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	"github.com/Affo25/imsdashboard/internal"
	"github.com/Affo25/imsdashboard/internal/auth"
	userDatamodel "github.com/Affo25/imsdashboard/internal/core/datamodel/user"
	"github.com/Affo25/imsdashboard/internal/transport"
	"github.com/Affo25/imsdashboard/internal/user"
	userPostgres "github.com/Affo25/imsdashboard/internal/user/postgres"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var _ = Describe("Auth Handler Integration", func() {
	var (
		db      *gorm.DB
		service *user.Service
		tokens  *auth.JWTTokenService
		handler *auth.Handler
	)

	post := func(h http.HandlerFunc, path string, body interface{}) *httptest.ResponseRecorder {
		payload, err := json.Marshal(body)
		Expect(err).NotTo(HaveOccurred())
		req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		h(w, req)
		return w
	}

	errorOf := func(w *httptest.ResponseRecorder) string {
		var body transport.ErrorBody
		Expect(json.NewDecoder(w.Body).Decode(&body)).To(Succeed())
		return body.Error
	}

	register := func(body map[string]interface{}) *httptest.ResponseRecorder {
		return post(handler.Register, "/api/auth/register", body)
	}

	login := func(email, password string) *httptest.ResponseRecorder {
		return post(handler.Login, "/api/auth/login", map[string]string{"email": email, "password": password})
	}

	alice := map[string]interface{}{
		"email":      "alice@example.com",
		"password":   "secret1",
		"first_name": "Alice",
	}

	BeforeEach(func() {
		var err error
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger:         logger.Default.LogMode(logger.Silent),
			TranslateError: true,
		})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)

		Expect(db.AutoMigrate(&userDatamodel.User{})).To(Succeed())

		service = user.NewService(userPostgres.NewUserRepository(db), bcrypt.MinCost, slogger)
		tokens = auth.NewTokenService(testSecret)
		handler = auth.NewHandler(transport.NewBaseHandler(slogger), service, tokens, true)
	})

	Describe("POST /api/auth/register", func() {
		It("should create an active user with the default role", func() {
			w := register(alice)
			Expect(w.Code).To(Equal(http.StatusCreated))

			var resp struct {
				Success bool                   `json:"success"`
				User    map[string]interface{} `json:"user"`
			}
			Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
			Expect(resp.Success).To(BeTrue())
			Expect(resp.User["email"]).To(Equal("alice@example.com"))
			Expect(resp.User["type"]).To(Equal("user"))
			Expect(resp.User["status"]).To(Equal("active"))
			Expect(resp.User).NotTo(HaveKey("password"))
			Expect(resp.User).NotTo(HaveKey("PasswordHash"))
		})

		It("should store a bcrypt hash instead of the password", func() {
			Expect(register(alice).Code).To(Equal(http.StatusCreated))

			var row userDatamodel.User
			Expect(db.Where("email = ?", "alice@example.com").First(&row).Error).To(Succeed())
			Expect(row.PasswordHash).NotTo(Equal("secret1"))
			Expect(bcrypt.CompareHashAndPassword([]byte(row.PasswordHash), []byte("secret1"))).To(Succeed())
		})

		It("should keep the requested role and areas", func() {
			w := register(map[string]interface{}{
				"email":      "bob@example.com",
				"password":   "secret1",
				"first_name": "Bob",
				"type":       "manager",
				"areas":      []string{"north", "south"},
			})
			Expect(w.Code).To(Equal(http.StatusCreated))

			var resp auth.RegisterResponse
			Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
			Expect(resp.User.Role).To(Equal(user.RoleManager))
			Expect(resp.User.Areas).To(Equal([]string{"north", "south"}))
		})

		It("should echo an empty areas list back", func() {
			w := register(map[string]interface{}{
				"email":      "carol@example.com",
				"password":   "secret1",
				"first_name": "Carol",
				"areas":      []string{},
			})
			Expect(w.Code).To(Equal(http.StatusCreated))

			var resp struct {
				User map[string]interface{} `json:"user"`
			}
			Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
			Expect(resp.User["areas"]).To(Equal([]interface{}{}))
		})

		It("should reject a duplicate email with 400", func() {
			Expect(register(alice).Code).To(Equal(http.StatusCreated))

			w := register(alice)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(errorOf(w)).To(Equal("Email already exists"))
		})

		DescribeTable("should reject invalid input with 400",
			func(body map[string]interface{}, message string) {
				w := register(body)
				Expect(w.Code).To(Equal(http.StatusBadRequest))
				Expect(errorOf(w)).To(Equal(message))
			},
			Entry("missing first name",
				map[string]interface{}{"email": "a@example.com", "password": "secret1"},
				"Email, password, and first name are required"),
			Entry("malformed email",
				map[string]interface{}{"email": "not-an-email", "password": "secret1", "first_name": "A"},
				"Invalid email format"),
			Entry("short password",
				map[string]interface{}{"email": "a@example.com", "password": "12345", "first_name": "A"},
				"Password must be at least 6 characters long"),
			Entry("overlong email",
				map[string]interface{}{"email": strings.Repeat("a", 250) + "@example.com", "password": "secret1", "first_name": "A"},
				"email must not exceed 255 characters"),
			Entry("overlong first name",
				map[string]interface{}{"email": "a@example.com", "password": "secret1", "first_name": strings.Repeat("A", 256)},
				"first_name must not exceed 255 characters"),
			Entry("unknown role",
				map[string]interface{}{"email": "a@example.com", "password": "secret1", "first_name": "A", "type": "root"},
				"Invalid user type"),
		)

		It("should reject a body that is not JSON", func() {
			req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewBufferString("{"))
			w := httptest.NewRecorder()
			handler.Register(w, req)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(errorOf(w)).To(Equal("Invalid request body"))
		})
	})

	Describe("POST /api/auth/login", func() {
		BeforeEach(func() {
			Expect(register(alice).Code).To(Equal(http.StatusCreated))
		})

		It("should reject a wrong password with 401", func() {
			w := login("alice@example.com", "wrong")
			Expect(w.Code).To(Equal(http.StatusUnauthorized))
			Expect(errorOf(w)).To(Equal("Invalid credentials"))
			Expect(w.Result().Cookies()).To(BeEmpty())
		})

		It("should reject an unknown email the same way", func() {
			w := login("nobody@example.com", "secret1")
			Expect(w.Code).To(Equal(http.StatusUnauthorized))
			Expect(errorOf(w)).To(Equal("Invalid credentials"))
		})

		It("should reject missing fields with 400", func() {
			w := login("alice@example.com", "")
			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(errorOf(w)).To(Equal("Email and password are required"))
		})

		It("should reject inactive accounts", func() {
			Expect(db.Model(&userDatamodel.User{}).
				Where("email = ?", "alice@example.com").
				Update("status", "inactive").Error).To(Succeed())

			w := login("alice@example.com", "secret1")
			Expect(w.Code).To(Equal(http.StatusUnauthorized))
		})

		It("should issue a token and set the auth cookie", func() {
			w := login("alice@example.com", "secret1")
			Expect(w.Code).To(Equal(http.StatusOK))

			var resp auth.LoginResponse
			Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
			Expect(resp.Success).To(BeTrue())
			Expect(resp.User.Email).To(Equal("alice@example.com"))
			Expect(resp.User.Role).To(Equal(user.RoleUser))

			claims, err := tokens.Verify(resp.Token)
			Expect(err).NotTo(HaveOccurred())
			Expect(claims.UserID).To(Equal(resp.User.ID))
			Expect(claims.Role).To(Equal("user"))

			cookies := w.Result().Cookies()
			Expect(cookies).To(HaveLen(1))
			cookie := cookies[0]
			Expect(cookie.Name).To(Equal(auth.CookieName))
			Expect(cookie.Value).To(Equal(resp.Token))
			Expect(cookie.HttpOnly).To(BeTrue())
			Expect(cookie.Secure).To(BeTrue())
			Expect(cookie.SameSite).To(Equal(http.SameSiteStrictMode))
			Expect(cookie.Path).To(Equal("/"))
			Expect(cookie.MaxAge).To(Equal(7 * 24 * 60 * 60))
		})
	})

	Describe("GET /api/auth/me", func() {
		var token string

		BeforeEach(func() {
			Expect(register(alice).Code).To(Equal(http.StatusCreated))
			w := login("alice@example.com", "secret1")
			Expect(w.Code).To(Equal(http.StatusOK))
			var resp auth.LoginResponse
			Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
			token = resp.Token
		})

		me := func(configure func(*http.Request)) *httptest.ResponseRecorder {
			req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
			configure(req)
			w := httptest.NewRecorder()
			handler.Me(w, req)
			return w
		}

		It("should return the user for a bearer token", func() {
			w := me(func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) })
			Expect(w.Code).To(Equal(http.StatusOK))

			var resp auth.MeResponse
			Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
			Expect(resp.User.Email).To(Equal("alice@example.com"))
			Expect(resp.User.FirstName).To(Equal("Alice"))
		})

		It("should return the user for the cookie", func() {
			w := me(func(r *http.Request) { r.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token}) })
			Expect(w.Code).To(Equal(http.StatusOK))
		})

		It("should answer 401 without a token", func() {
			w := me(func(*http.Request) {})
			Expect(w.Code).To(Equal(http.StatusUnauthorized))
			Expect(errorOf(w)).To(Equal("No token provided"))
		})

		It("should answer 401 for a bad token", func() {
			w := me(func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") })
			Expect(w.Code).To(Equal(http.StatusUnauthorized))
			Expect(errorOf(w)).To(Equal("Invalid token"))
		})

		It("should answer 404 once the account is deactivated", func() {
			Expect(db.Model(&userDatamodel.User{}).
				Where("email = ?", "alice@example.com").
				Update("status", "inactive").Error).To(Succeed())

			w := me(func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) })
			Expect(w.Code).To(Equal(http.StatusNotFound))
			Expect(errorOf(w)).To(Equal("User not found"))
		})

		It("should answer 404 for a valid token of an unknown user", func() {
			ghost, err := tokens.Issue(internal.Identity{UserID: 9999, Email: "ghost@example.com", Role: "user"})
			Expect(err).NotTo(HaveOccurred())

			w := me(func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+ghost) })
			Expect(w.Code).To(Equal(http.StatusNotFound))
		})
	})

	Describe("POST /api/auth/logout", func() {
		It("should expire the auth cookie", func() {
			req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
			w := httptest.NewRecorder()
			handler.Logout(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
			var resp auth.LogoutResponse
			Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
			Expect(resp.Success).To(BeTrue())

			cookies := w.Result().Cookies()
			Expect(cookies).To(HaveLen(1))
			Expect(cookies[0].Name).To(Equal(auth.CookieName))
			Expect(cookies[0].MaxAge).To(BeNumerically("<", 0))
		})
	})
})
