package submission_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"time"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/izzatfaris/permohonan-intake/internal/kvstore"
	"github.com/izzatfaris/permohonan-intake/internal/submission"
	submissionkv "github.com/izzatfaris/permohonan-intake/internal/submission/kv"
)

// failStore fails every operation, simulating a broken backing store.
type failStore struct{}

var errStoreDown = errors.New("store unreachable")

func (failStore) Set(context.Context, string, any) error            { return errStoreDown }
func (failStore) Get(context.Context, string, any) (bool, error)    { return false, errStoreDown }
func (failStore) Del(context.Context, string) error                 { return errStoreDown }
func (failStore) MSet(context.Context, []string, []any) error       { return errStoreDown }
func (failStore) MGet(context.Context, []string) ([]json.RawMessage, error) {
	return nil, errStoreDown
}
func (failStore) MDel(context.Context, []string) error { return errStoreDown }
func (failStore) GetByPrefix(context.Context, string) ([]json.RawMessage, error) {
	return nil, errStoreDown
}

func newRouter(store kvstore.Store, now func() time.Time) *chi.Mux {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	repo := submissionkv.NewRepositoryWithClock(store, now)
	service := submission.NewService(repo, logger)
	handler := submission.NewHandler(service)

	router := chi.NewRouter()
	router.Route("/submissions", func(sr chi.Router) {
		sr.Post("/", handler.CreateSubmission)
		sr.Get("/", handler.GetAllSubmissions)
		sr.Get("/email/{email}", handler.GetSubmissionsByEmail)
		sr.Get("/{id}", handler.GetSubmission)
		sr.Put("/{id}/status", handler.UpdateStatus)
	})
	return router
}

func postJSON(router http.Handler, target string, payload any) *httptest.ResponseRecorder {
	body, err := json.Marshal(payload)
	Expect(err).NotTo(HaveOccurred())

	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func putJSON(router http.Handler, target string, payload any) *httptest.ResponseRecorder {
	body, err := json.Marshal(payload)
	Expect(err).NotTo(HaveOccurred())

	req := httptest.NewRequest(http.MethodPut, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func getJSON(router http.Handler, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(rec *httptest.ResponseRecorder) map[string]any {
	var body map[string]any
	Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
	return body
}

var _ = Describe("Handler", func() {
	var (
		db     *gorm.DB
		router *chi.Mux
		now    time.Time
	)

	validPayload := func() map[string]any {
		return map[string]any{
			"tarikh":       "2025-08-04",
			"bahagian":     "Bahagian Teknologi Maklumat",
			"namaProjek":   "Portal Data Terbuka",
			"tujuanProjek": "Akses data terbuka",
			"kutipanData":  "monthly",
			"namaPengawai": "Aminah binti Hassan",
			"email":        "a@b.com",
		}
	}

	BeforeEach(func() {
		var err error

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
		Expect(err).NotTo(HaveOccurred())
		Expect(db.AutoMigrate(&kvstore.Entry{})).To(Succeed())

		now = time.Date(2025, 8, 4, 9, 30, 0, 0, time.UTC)
		router = newRouter(kvstore.NewGormStore(db), func() time.Time {
			// every call observes a later clock so ids never collide
			now = now.Add(time.Millisecond)
			return now
		})
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		Expect(sqlDB.Close()).To(Succeed())
	})

	Describe("POST /submissions", func() {
		It("should create a submission and echo it with success", func() {
			rec := postJSON(router, "/submissions", validPayload())
			Expect(rec.Code).To(Equal(http.StatusCreated))

			body := decodeBody(rec)
			Expect(body).To(HaveKeyWithValue("success", true))

			sub := body["submission"].(map[string]any)
			Expect(sub["status"]).To(Equal("Pending"))
			Expect(sub["websiteUrl"]).To(Equal(""))
			Expect(sub["catatan"]).To(Equal(""))
			Expect(sub["id"]).NotTo(BeEmpty())
		})

		It("should return 400 with the generic message when a required field is missing", func() {
			payload := validPayload()
			delete(payload, "namaProjek")

			rec := postJSON(router, "/submissions", payload)
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
			Expect(decodeBody(rec)).To(HaveKeyWithValue("error", "Missing required fields"))

			// nothing persisted
			list := getJSON(router, "/submissions")
			Expect(decodeBody(list)["submissions"]).To(BeEmpty())
		})

		It("should return 400 for a malformed body", func() {
			req := httptest.NewRequest(http.MethodPost, "/submissions", bytes.NewReader([]byte("{not json")))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})

		It("should surface a store failure as 500 with details", func() {
			broken := newRouter(failStore{}, time.Now)

			rec := postJSON(broken, "/submissions", validPayload())
			Expect(rec.Code).To(Equal(http.StatusInternalServerError))

			body := decodeBody(rec)
			Expect(body).To(HaveKey("error"))
			Expect(body).To(HaveKeyWithValue("details", "store unreachable"))
		})
	})

	Describe("GET /submissions", func() {
		It("should list submissions newest first", func() {
			payload := validPayload()
			payload["namaProjek"] = "Pertama"
			postJSON(router, "/submissions", payload)

			payload["namaProjek"] = "Kedua"
			postJSON(router, "/submissions", payload)

			rec := getJSON(router, "/submissions")
			Expect(rec.Code).To(Equal(http.StatusOK))

			subs := decodeBody(rec)["submissions"].([]any)
			Expect(subs).To(HaveLen(2))
			Expect(subs[0].(map[string]any)["namaProjek"]).To(Equal("Kedua"))
			Expect(subs[1].(map[string]any)["namaProjek"]).To(Equal("Pertama"))
		})
	})

	Describe("GET /submissions/{id}", func() {
		It("should return the submission", func() {
			rec := postJSON(router, "/submissions", validPayload())
			created := decodeBody(rec)["submission"].(map[string]any)

			got := getJSON(router, "/submissions/"+created["id"].(string))
			Expect(got.Code).To(Equal(http.StatusOK))
			Expect(decodeBody(got)["submission"].(map[string]any)["id"]).To(Equal(created["id"]))
		})

		It("should return 404 for an unknown id", func() {
			rec := getJSON(router, "/submissions/1754300000000")
			Expect(rec.Code).To(Equal(http.StatusNotFound))
			Expect(decodeBody(rec)).To(HaveKeyWithValue("error", "Submission not found"))
		})
	})

	Describe("GET /submissions/email/{email}", func() {
		It("should find submissions case-insensitively, newest first", func() {
			payload := validPayload()
			payload["email"] = "a@b.com"
			payload["namaProjek"] = "Pertama"
			postJSON(router, "/submissions", payload)

			payload["namaProjek"] = "Kedua"
			postJSON(router, "/submissions", payload)

			rec := getJSON(router, "/submissions/email/A@B.com")
			Expect(rec.Code).To(Equal(http.StatusOK))

			subs := decodeBody(rec)["submissions"].([]any)
			Expect(subs).To(HaveLen(2))
			Expect(subs[0].(map[string]any)["namaProjek"]).To(Equal("Kedua"))
		})

		It("should return an empty list for an unknown email", func() {
			rec := getJSON(router, "/submissions/email/siapa@mana.com")
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(decodeBody(rec)["submissions"]).To(BeEmpty())
		})
	})

	Describe("PUT /submissions/{id}/status", func() {
		It("should update the status", func() {
			rec := postJSON(router, "/submissions", validPayload())
			created := decodeBody(rec)["submission"].(map[string]any)
			id := created["id"].(string)

			upd := putJSON(router, "/submissions/"+id+"/status", map[string]any{"status": "Approved"})
			Expect(upd.Code).To(Equal(http.StatusOK))

			body := decodeBody(upd)
			Expect(body).To(HaveKeyWithValue("success", true))
			Expect(body["submission"].(map[string]any)["status"]).To(Equal("Approved"))

			got := getJSON(router, "/submissions/"+id)
			Expect(decodeBody(got)["submission"].(map[string]any)["status"]).To(Equal("Approved"))
		})

		It("should return 400 when status is missing", func() {
			rec := postJSON(router, "/submissions", validPayload())
			id := decodeBody(rec)["submission"].(map[string]any)["id"].(string)

			upd := putJSON(router, "/submissions/"+id+"/status", map[string]any{})
			Expect(upd.Code).To(Equal(http.StatusBadRequest))
			Expect(decodeBody(upd)).To(HaveKeyWithValue("error", "Status is required"))
		})

		It("should return 404 for an unknown id", func() {
			upd := putJSON(router, "/submissions/1754300000000/status", map[string]any{"status": "Approved"})
			Expect(upd.Code).To(Equal(http.StatusNotFound))
		})
	})
})
