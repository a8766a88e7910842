// Command apigate is a thin demo server: it parses an OpenAPI document,
// builds a spec index and a JWT verifier from flags, and serves the
// Middleware Chain over a single echo business handler so the gate's
// behavior can be exercised against real HTTP requests.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/apigate/apigate/gatemw"
	"github.com/apigate/apigate/jwtverifier"
	"github.com/apigate/apigate/parser"
	"github.com/apigate/apigate/specindex"
)

func main() {
	fs := flag.NewFlagSet("apigate", flag.ContinueOnError)
	specPath := fs.String("spec", "", "path or URL to the OpenAPI document to enforce")
	addr := fs.String("addr", ":8080", "address to listen on")
	keySources := fs.String("jwt-keys", "", "comma-separated kid=locator pairs (JWKS URL or local PEM path)")
	issuer := fs.String("jwt-issuer", "", "required iss claim, empty to skip the check")
	audience := fs.String("jwt-audience", "", "required aud claim, empty to skip the check")
	clockSkew := fs.Duration("jwt-clock-skew", 0, "leeway applied to exp/nbf comparisons")
	verifyScope := fs.Bool("verify-scope", true, "enforce operation-level oauth2 scopes")

	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: apigate -spec <file|url> [flags]\n\n")
		fmt.Fprintf(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}

	logger := parser.NewSlogAdapter(slog.Default())

	if *specPath == "" {
		fmt.Fprintln(fs.Output(), "apigate: -spec is required")
		fs.Usage()
		os.Exit(2)
	}

	result, err := parser.ParseWithOptions(
		parser.WithFilePath(*specPath),
		parser.WithValidateStructure(true),
		parser.WithLogger(logger),
	)
	if err != nil {
		logger.Error("failed to parse spec", "path", *specPath, "error", err)
		os.Exit(1)
	}

	index, err := specindex.New(result)
	if err != nil {
		logger.Error("failed to build spec index", "error", err)
		os.Exit(1)
	}

	verifierOpts := []jwtverifier.Option{jwtverifier.WithLogger(logger)}
	if *issuer != "" {
		verifierOpts = append(verifierOpts, jwtverifier.WithIssuer(*issuer))
	}
	if *audience != "" {
		verifierOpts = append(verifierOpts, jwtverifier.WithAudience(*audience))
	}
	if *clockSkew > 0 {
		verifierOpts = append(verifierOpts, jwtverifier.WithClockSkew(*clockSkew))
	}
	for kid, locator := range parseKeySources(*keySources) {
		verifierOpts = append(verifierOpts, jwtverifier.WithKeySource(kid, locator))
	}

	verifier, err := jwtverifier.New(verifierOpts...)
	if err != nil {
		logger.Error("failed to build JWT verifier", "error", err)
		os.Exit(1)
	}

	chain := gatemw.New(index, verifier, gatemw.WithVerifyScope(*verifyScope))

	srv := &http.Server{
		Addr:         *addr,
		Handler:      newGateHandler(chain, logger),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	logger.Info("apigate listening", "addr", *addr, "spec", *specPath)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

// parseKeySources parses "kid1=locator1,kid2=locator2" into a map,
// skipping empty entries.
func parseKeySources(raw string) map[string]string {
	sources := make(map[string]string)
	if raw == "" {
		return sources
	}
	for _, pair := range strings.Split(raw, ",") {
		kid, locator, ok := strings.Cut(pair, "=")
		if !ok || kid == "" || locator == "" {
			continue
		}
		sources[kid] = locator
	}
	return sources
}

// newGateHandler adapts an http.Request into a gatemw.Exchange, runs the
// chain, and echoes back a small JSON body describing what the gate
// resolved — there is no real upstream service behind this demo.
func newGateHandler(chain *gatemw.Chain, logger parser.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ex := &gatemw.Exchange{
			Context:     r.Context(),
			Method:      r.Method,
			RawPath:     r.URL.Path,
			Header:      r.Header,
			QueryValues: r.URL.Query(),
		}
		if v, ok := readJSONBody(r); ok {
			ex.Body = v
		}

		werr := chain.Serve(ex, func(ex *gatemw.Exchange) {
			ex.ResponseStatusCode = http.StatusOK
			ex.ResponseMediaType = "application/json"
			ex.ResponseBody = map[string]any{
				"endpoint": ex.Audit.Endpoint,
				"clientId": ex.Audit.ClientID,
				"userId":   ex.Audit.UserID,
			}
		})

		if werr != nil {
			logger.Warn("request rejected", "endpoint", ex.Audit.Endpoint, "code", werr.Code)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(werr.StatusCode)
			_ = json.NewEncoder(w).Encode(werr)
			return
		}

		w.Header().Set("Content-Type", ex.ResponseMediaType)
		w.WriteHeader(ex.ResponseStatusCode)
		_ = json.NewEncoder(w).Encode(ex.ResponseBody)
	})
}

// readJSONBody decodes r's body as JSON if present, reporting false for
// an empty body rather than treating it as a parse error.
func readJSONBody(r *http.Request) (any, bool) {
	if r.Body == nil || r.ContentLength == 0 {
		return nil, false
	}
	var v any
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		return nil, false
	}
	return v, true
}
