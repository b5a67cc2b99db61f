package httpserver

import (
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	appaudit "github.com/bryanwahyu/automaton-shop/internal/application/audit"
	appbackups "github.com/bryanwahyu/automaton-shop/internal/application/backups"
	appcatalog "github.com/bryanwahyu/automaton-shop/internal/application/catalog"
	appjobs "github.com/bryanwahyu/automaton-shop/internal/application/jobs"
	appuploads "github.com/bryanwahyu/automaton-shop/internal/application/uploads"
	"github.com/bryanwahyu/automaton-shop/internal/domain/audit"
	"github.com/bryanwahyu/automaton-shop/internal/domain/jobs"
	"github.com/bryanwahyu/automaton-shop/internal/domain/plans"
	"github.com/bryanwahyu/automaton-shop/internal/domain/scans"
	"github.com/bryanwahyu/automaton-shop/internal/domain/stores"
	"github.com/bryanwahyu/automaton-shop/internal/domain/templates"
	"github.com/bryanwahyu/automaton-shop/internal/middleware"
)

// GET /v1/store
func (r *Router) handleStore(w http.ResponseWriter, req *http.Request) error {
	st, err := r.svc.Stores.Current(req.Context(), merchant(req))
	if err != nil {
		return err
	}
	return ok(w, st)
}

// POST /v1/store/connect
// Body: {"store_url": "my-shop.myshopify.com"}
func (r *Router) handleConnect(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		StoreURL string `json:"store_url"`
	}
	if err := decode(req, &body); err != nil {
		return err
	}
	if strings.TrimSpace(body.StoreURL) == "" {
		return middleware.Invalid("store_url", "is required")
	}
	st, err := r.svc.Stores.Connect(req.Context(), merchant(req), body.StoreURL)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusCreated, st)
}

// POST /v1/store/initial-scan
// Body: {"store_id": "<id>"} (optional, defaults to the current store)
func (r *Router) handleInitialScan(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		StoreID string `json:"store_id"`
	}
	if err := decode(req, &body); err != nil {
		return err
	}
	st, err := r.svc.Stores.InitialScan(req.Context(), merchant(req), body.StoreID)
	if err != nil {
		return err
	}
	return ok(w, st)
}

// POST /v1/store/check-connection
func (r *Router) handleCheckConnection(w http.ResponseWriter, req *http.Request) error {
	st, err := r.svc.Stores.CheckConnection(req.Context(), merchant(req))
	if err != nil {
		return err
	}
	return ok(w, st)
}

// PATCH /v1/store/settings
func (r *Router) handleSettings(w http.ResponseWriter, req *http.Request) error {
	ctx := req.Context()
	st, err := r.svc.Stores.Current(ctx, merchant(req))
	if err != nil {
		return err
	}
	// only the fields present in the body change
	settings := st.Settings
	if err := decode(req, &settings); err != nil {
		return err
	}
	st, err = r.svc.Stores.UpdateSettings(ctx, merchant(req), settings)
	if err != nil {
		return err
	}
	return ok(w, st)
}

// GET /v1/dashboard
func (r *Router) handleDashboard(w http.ResponseWriter, req *http.Request) error {
	ov, err := r.svc.Dashboard.Overview(req.Context(), merchant(req))
	if err != nil {
		return err
	}
	return ok(w, ov)
}

// POST /v1/dashboard/actions/{action}
func (r *Router) handleQuickAction(w http.ResponseWriter, req *http.Request) error {
	res, err := r.svc.Dashboard.QuickAction(req.Context(), merchant(req), chi.URLParam(req, "action"))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusAccepted, res)
}

// POST /v1/scans
// Starts a full scan in the background; poll GET /v1/scans/{id}.
func (r *Router) handleStartScan(w http.ResponseWriter, req *http.Request) error {
	scan, err := r.svc.Scans.StartFullScan(req.Context(), merchant(req))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusAccepted, scan)
}

// GET /v1/scans?limit=
func (r *Router) handleRecentScans(w http.ResponseWriter, req *http.Request) error {
	list, err := r.svc.Scans.Recent(req.Context(), merchant(req), middleware.ValidateLimit(queryInt(req, "limit")))
	if err != nil {
		return err
	}
	return ok(w, list)
}

// GET /v1/scans/latest
func (r *Router) handleLatestScan(w http.ResponseWriter, req *http.Request) error {
	res, err := r.svc.Scans.Latest(req.Context(), merchant(req))
	if err != nil {
		return err
	}
	return ok(w, res)
}

// GET /v1/scans/{id}
func (r *Router) handleGetScan(w http.ResponseWriter, req *http.Request) error {
	scan, err := r.svc.Scans.Get(req.Context(), merchant(req), chi.URLParam(req, "id"))
	if err != nil {
		return err
	}
	return ok(w, scan)
}

// GET /v1/scans/{id}/issues?type=&impact=&status=&search=
func (r *Router) handleIssues(w http.ResponseWriter, req *http.Request) error {
	q := req.URL.Query()
	f := scans.Filter{Type: q.Get("type"), Impact: q.Get("impact"), Status: q.Get("status"), Search: q.Get("search")}
	issues, err := r.svc.Scans.ListIssues(req.Context(), merchant(req), chi.URLParam(req, "id"), f)
	if err != nil {
		return err
	}
	return ok(w, issues)
}

// POST /v1/issues/{id}/fix
func (r *Router) handleApplyFix(w http.ResponseWriter, req *http.Request) error {
	issue, err := r.svc.Scans.ApplyFix(req.Context(), merchant(req), chi.URLParam(req, "id"))
	if err != nil {
		return err
	}
	return ok(w, issue)
}

// GET /v1/jobs?type=&limit=
func (r *Router) handleJobs(w http.ResponseWriter, req *http.Request) error {
	f := jobs.Filter{JobType: jobs.Type(req.URL.Query().Get("type")), Limit: queryInt(req, "limit")}
	list, err := r.svc.Jobs.List(req.Context(), merchant(req), f)
	if err != nil {
		return err
	}
	return ok(w, list)
}

// GET /v1/jobs/{id}
func (r *Router) handleGetJob(w http.ResponseWriter, req *http.Request) error {
	job, err := r.svc.Jobs.Get(req.Context(), merchant(req), chi.URLParam(req, "id"))
	if err != nil {
		return err
	}
	return ok(w, job)
}

// POST /v1/jobs/images
// Body: {"files": ["https://..."], "settings": {"quality": 80, "format": "webp", "maxWidth": 1920}}
func (r *Router) handleOptimizeImages(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Files    []string              `json:"files"`
		Settings appjobs.ImageSettings `json:"settings"`
	}
	if err := decode(req, &body); err != nil {
		return err
	}
	job, err := r.svc.Jobs.OptimizeImages(req.Context(), merchant(req), body.Files, body.Settings)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusAccepted, job)
}

// POST /v1/uploads?kind=images|themes|files (multipart field "file")
func (r *Router) handleUpload(w http.ResponseWriter, req *http.Request) error {
	req.Body = http.MaxBytesReader(w, req.Body, r.max)
	file, header, err := req.FormFile("file")
	if err != nil {
		return middleware.Invalid("file", "multipart field \"file\" is required: %v", err)
	}
	defer file.Close()

	kind := appuploads.Kind(req.URL.Query().Get("kind"))
	switch kind {
	case "":
		kind = appuploads.KindImage
	case appuploads.KindImage, appuploads.KindTheme, appuploads.KindGeneric:
	default:
		return middleware.Invalid("kind", "unknown upload kind %q", kind)
	}
	up, err := r.svc.Uploads.UploadFile(req.Context(), merchant(req), kind, header.Filename,
		header.Header.Get("Content-Type"), file, header.Size)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusCreated, up)
}

// GET /v1/products
func (r *Router) handleProducts(w http.ResponseWriter, req *http.Request) error {
	list, err := r.svc.Catalog.Products(req.Context(), merchant(req))
	if err != nil {
		return err
	}
	return ok(w, list)
}

// PUT /v1/products/{id}/geo
func (r *Router) handleGeoRules(w http.ResponseWriter, req *http.Request) error {
	var rules appcatalog.GeoRules
	if err := decode(req, &rules); err != nil {
		return err
	}
	p, err := r.svc.Catalog.SaveGeoRules(req.Context(), merchant(req), chi.URLParam(req, "id"), rules)
	if err != nil {
		return err
	}
	return ok(w, p)
}

// POST /v1/products/{id}/analyze
func (r *Router) handleAnalyzeProduct(w http.ResponseWriter, req *http.Request) error {
	raw, err := r.svc.Catalog.AnalyzeProduct(req.Context(), merchant(req), chi.URLParam(req, "id"))
	if err != nil {
		return err
	}
	return ok(w, raw)
}

// GET /v1/products/{id}/reviews?limit=
func (r *Router) handleReviews(w http.ResponseWriter, req *http.Request) error {
	list, err := r.svc.Catalog.Reviews(req.Context(), merchant(req), chi.URLParam(req, "id"), queryInt(req, "limit"))
	if err != nil {
		return err
	}
	return ok(w, list)
}

// POST /v1/reviews/import
func (r *Router) handleImportReviews(w http.ResponseWriter, req *http.Request) error {
	var in appcatalog.ImportInput
	if err := decode(req, &in); err != nil {
		return err
	}
	res, err := r.svc.Catalog.ImportReviews(req.Context(), merchant(req), in)
	if err != nil {
		return err
	}
	return ok(w, res)
}

// GET /v1/geo?ip= (defaults to the caller's address)
func (r *Router) handleGeo(w http.ResponseWriter, req *http.Request) error {
	loc, err := r.svc.Catalog.GeoLocate(req.Context(), clientIP(req))
	if err != nil {
		return err
	}
	return ok(w, loc)
}

// GET /v1/storefront/products?country=&ip=
// Without a country the shopper is located by address.
func (r *Router) handleStorefrontProducts(w http.ResponseWriter, req *http.Request) error {
	ctx := req.Context()
	country := req.URL.Query().Get("country")
	if country == "" {
		loc, err := r.svc.Catalog.GeoLocate(ctx, clientIP(req))
		if err != nil {
			return err
		}
		country = loc.CountryCode
	}
	list, err := r.svc.Catalog.ProductsIn(ctx, merchant(req), country)
	if err != nil {
		return err
	}
	return ok(w, list)
}

func clientIP(req *http.Request) string {
	if ip := req.URL.Query().Get("ip"); ip != "" {
		return ip
	}
	if host, _, err := net.SplitHostPort(req.RemoteAddr); err == nil {
		return host
	}
	return req.RemoteAddr
}

// GET /v1/templates?category=&search=
func (r *Router) handleTemplates(w http.ResponseWriter, req *http.Request) error {
	q := req.URL.Query()
	list, err := r.svc.Templates.List(req.Context(), templates.Filter{Category: q.Get("category"), Search: q.Get("search")})
	if err != nil {
		return err
	}
	return ok(w, list)
}

// POST /v1/templates/{id}/install
func (r *Router) handleInstallTemplate(w http.ResponseWriter, req *http.Request) error {
	t, err := r.svc.Templates.Install(req.Context(), merchant(req), chi.URLParam(req, "id"))
	if err != nil {
		return err
	}
	return ok(w, t)
}

// GET /v1/backups
func (r *Router) handleBackups(w http.ResponseWriter, req *http.Request) error {
	list, err := r.svc.Backups.List(req.Context(), merchant(req))
	if err != nil {
		return err
	}
	return ok(w, list)
}

// POST /v1/backups
// JSON {"notes": "..."} or multipart with "notes" and an optional "file" theme archive.
func (r *Router) handleCreateBackup(w http.ResponseWriter, req *http.Request) error {
	var (
		notes   string
		content *appbackups.Content
	)
	if strings.HasPrefix(req.Header.Get("Content-Type"), "multipart/") {
		req.Body = http.MaxBytesReader(w, req.Body, r.max)
		if err := req.ParseMultipartForm(r.max); err != nil {
			return middleware.Invalid("body", "malformed multipart form: %v", err)
		}
		notes = req.FormValue("notes")
		if file, header, err := req.FormFile("file"); err == nil {
			defer file.Close()
			content = &appbackups.Content{
				Name:        header.Filename,
				ContentType: header.Header.Get("Content-Type"),
				Body:        file,
				Size:        header.Size,
			}
		}
	} else {
		var body struct {
			Notes string `json:"notes"`
		}
		if err := decode(req, &body); err != nil {
			return err
		}
		notes = body.Notes
	}
	b, err := r.svc.Backups.Create(req.Context(), merchant(req), notes, content)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusCreated, b)
}

// DELETE /v1/backups/{id}
func (r *Router) handleDeleteBackup(w http.ResponseWriter, req *http.Request) error {
	if err := r.svc.Backups.Delete(req.Context(), merchant(req), chi.URLParam(req, "id")); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func auditFilter(req *http.Request) audit.Filter {
	q := req.URL.Query()
	return audit.Filter{Type: q.Get("type"), Status: q.Get("status"), Search: q.Get("search")}
}

// GET /v1/audit?type=&status=&search=
func (r *Router) handleAudit(w http.ResponseWriter, req *http.Request) error {
	entries, err := r.svc.Audit.Logs(req.Context(), merchant(req), auditFilter(req))
	if err != nil {
		return err
	}
	return ok(w, map[string]any{
		"entries": entries,
		"summary": appaudit.Summarize(entries),
	})
}

// GET /v1/audit.csv?type=&status=&search=
func (r *Router) handleAuditCSV(w http.ResponseWriter, req *http.Request) error {
	entries, err := r.svc.Audit.Logs(req.Context(), merchant(req), auditFilter(req))
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="audit-logs-%s.csv"`,
		r.svc.Stores.Clock.Now().UTC().Format("2006-01-02")))
	return appaudit.ExportCSV(w, entries)
}

// GET /v1/plans
func (r *Router) handlePlans(w http.ResponseWriter, req *http.Request) error {
	current := stores.Plan("")
	if st, err := r.svc.Stores.Current(req.Context(), merchant(req)); err == nil {
		current = st.Plan
	}
	return ok(w, map[string]any{
		"current": current,
		"plans":   plans.Catalog(),
	})
}
