package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/opsnorth/secchecklist/internal/checklist/service"
	"github.com/opsnorth/secchecklist/internal/checklist/store/drivers/xlsx"
	"github.com/opsnorth/secchecklist/pkg/jwtx"
)

func newTestRouter(t *testing.T) (*Router, *jwtx.Signer) {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	_, err := f.NewSheet(xlsx.SheetControls)
	require.NoError(t, err)
	rows := [][]any{
		{xlsx.ColSecurityLevel, xlsx.ColLevel, xlsx.ColControlArea, xlsx.ColLayer2, xlsx.ColControl, xlsx.ColSubControl},
		{"High", "L1", "Network", "Segmentation", "SG", "SG-1"},
		{"High", "L2", "Network", "Encryption", "KMS", ""},
		{"High", "L1", "Identity", "MFA", "IAM", "IAM-2"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(xlsx.SheetControls, cell, &row))
	}

	_, err = f.NewSheet(xlsx.SheetApplications)
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow(xlsx.SheetApplications, "A1", &[]any{xlsx.ColAppName}))
	require.NoError(t, f.SetSheetRow(xlsx.SheetApplications, "A2", &[]any{"Foo"}))
	require.NoError(t, f.SetSheetRow(xlsx.SheetApplications, "A3", &[]any{"Bar"}))

	require.NoError(t, f.DeleteSheet("Sheet1"))

	path := filepath.Join(t.TempDir(), "checklist.xlsx")
	require.NoError(t, f.SaveAs(path))

	st, err := xlsx.NewStore(path)
	require.NoError(t, err)

	catalog, err := st.Catalog()
	require.NoError(t, err)

	signer := &jwtx.Signer{Secret: []byte("test-secret"), Issuer: "checklist", TTL: time.Hour}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	router := NewRouter(signer, "test", st, logger)
	router.AccountService = &service.AccountService{Store: st, Tokens: signer}
	router.SelectionService = &service.SelectionService{Store: st}
	router.CatalogService = &service.CatalogService{Catalog: catalog}
	router.ApplyRoutes()

	return router, signer
}

func doJSON(t *testing.T, router *Router, method, target, token, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestSignupAndLogin(t *testing.T) {
	router, signer := newTestRouter(t)

	t.Run("missing fields", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/signup", "", `{"email":"a@x.com"}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "Missing fields", decodeBody(t, rec)["error"])
	})

	t.Run("password mismatch", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/signup", "",
			`{"email":"a@x.com","password":"p1","confirm_password":"p2"}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "Passwords do not match", decodeBody(t, rec)["error"])
	})

	t.Run("successful signup", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/signup", "",
			`{"email":"a@x.com","password":"p1","confirm_password":"p1"}`)
		require.Equal(t, http.StatusCreated, rec.Code)

		body := decodeBody(t, rec)
		require.Equal(t, "User registered successfully", body["message"])

		claims, err := signer.Verify(body["token"].(string))
		require.NoError(t, err)
		require.Equal(t, "a@x.com", claims.Email)
	})

	t.Run("duplicate email in different case", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/signup", "",
			`{"email":"A@X.com","password":"p2","confirm_password":"p2"}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "Email is already registered", decodeBody(t, rec)["error"])
	})

	t.Run("login with correct password", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/login", "",
			`{"email":"a@x.com","password":"p1"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "Login successful", decodeBody(t, rec)["message"])
	})

	t.Run("login with wrong password", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/login", "",
			`{"email":"a@x.com","password":"wrong"}`)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, "Invalid email or password", decodeBody(t, rec)["error"])
	})

	t.Run("login with unknown email looks identical", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/login", "",
			`{"email":"nobody@x.com","password":"p1"}`)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, "Invalid email or password", decodeBody(t, rec)["error"])
	})
}

func TestProtectedRoutes(t *testing.T) {
	router, signer := newTestRouter(t)

	t.Run("missing token", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/get-selections", "", "")
		require.Equal(t, http.StatusForbidden, rec.Code)
		require.Equal(t, "Token is missing", decodeBody(t, rec)["error"])
	})

	t.Run("expired token", func(t *testing.T) {
		token, err := signer.IssueAt("a@x.com", time.Now().UTC().Add(-2*time.Hour))
		require.NoError(t, err)

		rec := doJSON(t, router, http.MethodGet, "/api/get-selections", token, "")
		require.Equal(t, http.StatusForbidden, rec.Code)
		require.Equal(t, "Token has expired", decodeBody(t, rec)["error"])
	})

	t.Run("garbage token", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/get-selections", "garbage", "")
		require.Equal(t, http.StatusForbidden, rec.Code)
		require.Equal(t, "Invalid token", decodeBody(t, rec)["error"])
	})

	t.Run("validate-token echoes the identity", func(t *testing.T) {
		token, err := signer.Issue("a@x.com")
		require.NoError(t, err)

		rec := doJSON(t, router, http.MethodPost, "/api/validate-token", token, "")
		require.Equal(t, http.StatusOK, rec.Code)

		body := decodeBody(t, rec)
		require.Equal(t, "a@x.com", body["email"])
		require.Equal(t, "Token is valid", body["message"])
	})
}

func TestSelectionsFlow(t *testing.T) {
	router, signer := newTestRouter(t)

	token, err := signer.Issue("a@x.com")
	require.NoError(t, err)

	t.Run("missing field", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/store-selections", token,
			`{"appName":"Foo","selectedType":"High"}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "Missing fields", decodeBody(t, rec)["error"])
	})

	t.Run("store then fetch", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/store-selections", token,
			`{"appName":"Foo","selectedType":"High","selectedControlArea":"Network"}`)
		require.Equal(t, http.StatusCreated, rec.Code)
		require.Equal(t, "Selections stored successfully", decodeBody(t, rec)["message"])

		rec = doJSON(t, router, http.MethodGet, "/api/get-selections", token, "")
		require.Equal(t, http.StatusOK, rec.Code)

		body := decodeBody(t, rec)
		sels := body["selections"].([]any)
		require.Len(t, sels, 1)

		first := sels[0].(map[string]any)
		require.Equal(t, "a@x.com", first["email"])
		require.Equal(t, "Foo", first["app"])
		require.Equal(t, "High", first["type"])
		require.Equal(t, "Network", first["control_area"])
	})

	t.Run("second store for the same app updates in place", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/store-selections", token,
			`{"appName":"Foo","selectedType":"Low","selectedControlArea":"Identity"}`)
		require.Equal(t, http.StatusCreated, rec.Code)

		rec = doJSON(t, router, http.MethodGet, "/api/get-selections", token, "")
		body := decodeBody(t, rec)
		sels := body["selections"].([]any)
		require.Len(t, sels, 1)

		first := sels[0].(map[string]any)
		require.Equal(t, "Low", first["type"])
		require.Equal(t, "Identity", first["control_area"])
	})

	t.Run("selections are per identity", func(t *testing.T) {
		other, err := signer.Issue("b@x.com")
		require.NoError(t, err)

		rec := doJSON(t, router, http.MethodGet, "/api/get-selections", other, "")
		require.Equal(t, http.StatusOK, rec.Code)
		require.Empty(t, decodeBody(t, rec)["selections"])
	})
}

func TestCatalogRoutes(t *testing.T) {
	router, signer := newTestRouter(t)

	token, err := signer.Issue("a@x.com")
	require.NoError(t, err)

	t.Run("levels", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/levels?type=high", token, "")
		require.Equal(t, http.StatusOK, rec.Code)

		var levels []string
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&levels))
		require.Equal(t, []string{"L1", "L2"}, levels)
	})

	t.Run("control areas", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/control-areas?type=High", token, "")
		require.Equal(t, http.StatusOK, rec.Code)

		var areas []string
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&areas))
		require.Equal(t, []string{"Network", "Identity"}, areas)
	})

	t.Run("controls drop incomplete rows", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/controls?type=high&control_area=Network", token, "")
		require.Equal(t, http.StatusOK, rec.Code)

		body := decodeBody(t, rec)
		require.Equal(t, []any{"Segmentation"}, body["layer2_controls"])
		require.Equal(t, []any{"SG"}, body["aws_controls"])
		require.Equal(t, []any{"SG-1"}, body["aws_sub_controls"])
	})

	t.Run("applications", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/applications", token, "")
		require.Equal(t, http.StatusOK, rec.Code)

		var apps []string
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&apps))
		require.Equal(t, []string{"Foo", "Bar"}, apps)
	})

	t.Run("catalog requires authentication", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/levels?type=high", "", "")
		require.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestHealthRoutes(t *testing.T) {
	router, _ := newTestRouter(t)

	t.Run("livez", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/livez", "", "")
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "ok", decodeBody(t, rec)["status"])
	})

	t.Run("readyz", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/readyz", "", "")
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "ok", decodeBody(t, rec)["status"])
	})
}
