package dashboard

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/liamzebedee/feevote-go/core"
	"github.com/liamzebedee/feevote-go/core/feevote"
)

//go:embed templates/*.html assets/*
var embedFS embed.FS

const (
	chartWidth  = 640
	chartHeight = 300
)

// DashboardServer serves the fee vote charts and a JSON API over the monitor's latest aggregation.
type DashboardServer struct {
	router *mux.Router
	log    *log.Logger

	host        string
	port        int
	environment string

	monitor        *feevote.Monitor
	refreshTimeout time.Duration

	// Lifetime of the server. Refresh cycles are bound to it.
	ctx context.Context
}

// getFS serves templates from disk in dev, so they can be edited without a rebuild.
func (srv *DashboardServer) getFS() fs.FS {
	if srv.environment == "dev" {
		_, currentFile, _, _ := runtime.Caller(0)
		return os.DirFS(filepath.Dir(currentFile))
	}
	return embedFS
}

func (srv *DashboardServer) getTemplates(patterns ...string) *template.Template {
	funcMap := template.FuncMap{
		"timeAgo":         timeAgo,
		"formatTimestamp": formatTimestamp,
		"formatValue":     formatValue,
		"formatCount":     formatCount,
		"shortKey":        shortKey,
		"chart": func(view feevote.ParameterView) barChart {
			return newBarChart(view, chartWidth, chartHeight)
		},
		"inc": func(i int) int { return i + 1 },
	}
	return template.Must(template.New("").Funcs(funcMap).ParseFS(srv.getFS(), patterns...))
}

func NewDashboardServer(monitor *feevote.Monitor, port int, refreshTimeout time.Duration) (*DashboardServer, error) {
	log := core.NewLogger("dashboard", "")
	environment := os.Getenv("ENV")
	if environment == "" {
		environment = "dev"
	}
	if !(environment == "dev" || environment == "test" || environment == "live") {
		return nil, fmt.Errorf("invalid environment %s, must be one of (dev, test, live)", environment)
	}

	log.Println("Environment:", environment)
	host := map[string]string{
		"dev":  "127.0.0.1",
		"test": "0.0.0.0",
		"live": "0.0.0.0",
	}[environment]

	srv := &DashboardServer{
		router:         mux.NewRouter(),
		log:            log,
		host:           host,
		port:           port,
		environment:    environment,
		monitor:        monitor,
		refreshTimeout: refreshTimeout,
		ctx:            context.Background(),
	}

	srv.router.HandleFunc("/", srv.homePage).Methods(http.MethodGet)
	srv.router.HandleFunc("/params/{param}", srv.parameterPage).Methods(http.MethodGet)
	srv.router.HandleFunc("/api/votes", srv.apiVotes).Methods(http.MethodGet)
	srv.router.HandleFunc("/api/votes/{param}", srv.apiParameter).Methods(http.MethodGet)
	srv.router.HandleFunc("/api/status", srv.apiStatus).Methods(http.MethodGet)
	srv.router.HandleFunc("/api/refresh", srv.apiRefresh).Methods(http.MethodPost)

	// Serve static files.
	srv.router.PathPrefix("/assets/").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.FileServer(http.FS(srv.getFS())).ServeHTTP(w, r)
	})

	return srv, nil
}

func (srv *DashboardServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	srv.router.ServeHTTP(w, r)
}

// Start serves until ctx is cancelled, then waits for open requests to finish.
func (srv *DashboardServer) Start(ctx context.Context) error {
	srv.ctx = ctx

	listenAddr := fmt.Sprintf("%s:%d", srv.host, srv.port)
	server := &http.Server{
		Addr:         listenAddr,
		Handler:      srv.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	shutdown := make(chan struct{})
	go func() {
		defer close(shutdown)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	srv.log.Printf("Listening on http://%s", listenAddr)
	err := server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		<-shutdown
		return nil
	}
	return err
}

func (srv *DashboardServer) render(w http.ResponseWriter, page string, data map[string]interface{}) {
	tmpl := srv.getTemplates("templates/"+page, "templates/_base_layout.html", "templates/_chart.html")
	err := tmpl.ExecuteTemplate(w, page, data)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (srv *DashboardServer) homePage(w http.ResponseWriter, r *http.Request) {
	agg, ok := srv.monitor.Latest()

	var views []feevote.ParameterView
	if ok {
		views = agg.Views()
	}

	srv.render(w, "index.html", map[string]interface{}{
		"Title":       "XRPL Fee Voting",
		"Aggregation": agg,
		"Views":       views,
		"Status":      srv.monitor.Status(),
	})
}

func (srv *DashboardServer) parameterPage(w http.ResponseWriter, r *http.Request) {
	p, err := feevote.ParseParameter(mux.Vars(r)["param"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	agg, ok := srv.monitor.Latest()
	data := map[string]interface{}{
		"Title":       p.Label(),
		"Aggregation": agg,
		"Status":      srv.monitor.Status(),
	}
	if ok {
		data["View"] = agg.Params.Get(p)
	}

	srv.render(w, "param.html", data)
}

type apiError struct {
	Error  string         `json:"error"`
	Status feevote.Status `json:"status"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (srv *DashboardServer) apiVotes(w http.ResponseWriter, r *http.Request) {
	agg, ok := srv.monitor.Latest()
	if !ok {
		writeJSON(w, http.StatusServiceUnavailable, apiError{Error: "no data yet", Status: srv.monitor.Status()})
		return
	}
	writeJSON(w, http.StatusOK, agg)
}

func (srv *DashboardServer) apiParameter(w http.ResponseWriter, r *http.Request) {
	p, err := feevote.ParseParameter(mux.Vars(r)["param"])
	if err != nil {
		writeJSON(w, http.StatusNotFound, apiError{Error: err.Error(), Status: srv.monitor.Status()})
		return
	}

	agg, ok := srv.monitor.Latest()
	if !ok {
		writeJSON(w, http.StatusServiceUnavailable, apiError{Error: "no data yet", Status: srv.monitor.Status()})
		return
	}
	writeJSON(w, http.StatusOK, agg.Params.Get(p))
}

func (srv *DashboardServer) apiStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, srv.monitor.Status())
}

func (srv *DashboardServer) apiRefresh(w http.ResponseWriter, r *http.Request) {
	if srv.ctx.Err() != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "shutting down"})
		return
	}

	srv.log.Println("Refresh requested")
	srv.monitor.Refresh(srv.ctx, srv.refreshTimeout)

	// The dashboard's refresh button is a plain form, send the browser back home.
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "refreshing"})
}
