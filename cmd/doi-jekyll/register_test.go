// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/doi-jekyll/internal/errs"
	"github.com/pdiddy/doi-jekyll/internal/ledger"
	"github.com/pdiddy/doi-jekyll/internal/logging"
	"github.com/pdiddy/doi-jekyll/pkg/types"
)

const wantDOI = "10.34732/xdvblg-R1BVIE"

const postContent = `---
layout: post
title: "GPU Kernels in Practice"
author: Andreas
date: 2022-08-01 10:00:00 +0200
tags: gpu hpc
license: cc-by4
abstract: A short *abstract*.
---

Body.
`

const authorContent = `---
name: Andreas Herten
first_name: Andreas
last_name: Herten
orcid_id: 0000-0002-7150-2505
---
`

type request struct {
	method string
	path   string
	body   string
}

// mds is a fake DataCite Metadata Store.
type mds struct {
	mu       sync.Mutex
	requests []request
	status   int
}

func (m *mds) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	data, _ := io.ReadAll(r.Body)
	m.mu.Lock()
	m.requests = append(m.requests, request{r.Method, r.URL.Path, string(data)})
	status := m.status
	m.mu.Unlock()
	if status == 0 {
		status = http.StatusCreated
	}
	w.WriteHeader(status)
	io.WriteString(w, "OK")
}

func (m *mds) calls() []request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]request(nil), m.requests...)
}

type blogFixture struct {
	dir      string
	postPath string
	cfg      types.RegistrationConfig
	server   *mds
}

func newBlog(t *testing.T) *blogFixture {
	t.Helper()
	server := &mds{}
	ts := httptest.NewServer(server)
	t.Cleanup(ts.Close)

	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}

	config := "url: https://x-dev.example.org/\n" +
		"doi_jekyll:\n" +
		"  prefix: \"10.34732\"\n" +
		"  suffix_base: xdvblg\n" +
		"  provider_url: " + ts.URL + "\n" +
		"  publisher: Forschungszentrum Juelich\n" +
		"  affiliation: Juelich Supercomputing Centre\n"
	write("_config.yml", config)
	write("_authors/andreas.md", authorContent)
	postPath := write("_posts/2022-08-01-gpu-kernels.md", postContent)

	return &blogFixture{
		dir:      dir,
		postPath: postPath,
		server:   server,
		cfg: types.RegistrationConfig{
			HTTPConfig:   types.HTTPConfig{Timeout: 5 * time.Second, UserAgent: "doi-jekyll/test", MaxRetries: 1},
			JekyllConfig: filepath.Join(dir, "_config.yml"),
			AuthorsDir:   filepath.Join(dir, "_authors"),
			LedgerPath:   filepath.Join(dir, ".doi-jekyll", "registrations.db"),
			Credentials:  types.Credentials{User: "TEST.BLOG", Password: "secret"},
		},
	}
}

func (b *blogFixture) post(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(b.postPath)
	require.NoError(t, err)
	return string(data)
}

func TestRegisterPost(t *testing.T) {
	b := newBlog(t)
	var out bytes.Buffer

	err := registerPost(context.Background(), b.cfg, b.postPath, nil, &out, logging.NoOp())
	require.NoError(t, err)
	assert.Equal(t, "Successfully created "+wantDOI+" at DataCite!\n", out.String())

	calls := b.server.calls()
	require.Len(t, calls, 2)

	assert.Equal(t, http.MethodPut, calls[0].method)
	assert.Equal(t, "/metadata/"+wantDOI, calls[0].path)
	assert.True(t, strings.HasPrefix(calls[0].body, `<?xml version="1.0" encoding="utf-8"?>`))
	assert.Contains(t, calls[0].body, `<identifier identifierType="DOI">`+wantDOI+`</identifier>`)
	assert.Contains(t, calls[0].body, `<creatorName nameType="Personal">Andreas Herten</creatorName>`)
	assert.Contains(t, calls[0].body, `<publicationYear>2022</publicationYear>`)

	assert.Equal(t, "/doi/"+wantDOI, calls[1].path)
	assert.Equal(t,
		"#Content-Type:text/plain;charset=UTF-8\ndoi= "+wantDOI+"\nurl= https://x-dev.example.org/2022/08/01/gpu-kernels.html",
		calls[1].body)

	assert.Contains(t, b.post(t), "doi: https://doi.org/"+wantDOI+"\n")

	store, err := ledger.NewStore(b.cfg.LedgerPath)
	require.NoError(t, err)
	defer store.Close()
	entries, err := store.List(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, wantDOI, entries[0].DOI)
	assert.True(t, entries[0].URLRegistered)
	assert.Equal(t, "https://x-dev.example.org/2022/08/01/gpu-kernels.html", entries[0].URL)
}

func TestRegisterPostRefusesExistingDOI(t *testing.T) {
	b := newBlog(t)
	require.NoError(t, registerPost(context.Background(), b.cfg, b.postPath, nil, io.Discard, nil))

	err := registerPost(context.Background(), b.cfg, b.postPath, nil, io.Discard, logging.NoOp())
	require.Error(t, err)
	assert.True(t, errs.IsConfiguration(err))
	assert.Contains(t, err.Error(), "already exists")
	assert.Len(t, b.server.calls(), 2)

	b.cfg.Force = true
	require.NoError(t, registerPost(context.Background(), b.cfg, b.postPath, nil, io.Discard, logging.NoOp()))
	assert.Len(t, b.server.calls(), 4)
	assert.Equal(t, 1, strings.Count(b.post(t), "doi: "))
}

func TestRegisterPostDryRun(t *testing.T) {
	b := newBlog(t)
	b.cfg.DryRun = true
	b.cfg.Credentials = types.Credentials{}
	before := b.post(t)

	var out bytes.Buffer
	require.NoError(t, registerPost(context.Background(), b.cfg, b.postPath, nil, &out, logging.NoOp()))

	assert.Contains(t, out.String(), `<?xml version="1.0" encoding="utf-8"?>`)
	assert.Contains(t, out.String(), "Dry run: "+wantDOI+" would point to https://x-dev.example.org/2022/08/01/gpu-kernels.html")
	assert.Empty(t, b.server.calls())
	assert.Equal(t, before, b.post(t))
	assert.NoFileExists(t, b.cfg.LedgerPath)
}

func TestRegisterPostMissingCredentials(t *testing.T) {
	b := newBlog(t)
	b.cfg.Credentials = types.Credentials{User: "only-user"}

	err := registerPost(context.Background(), b.cfg, b.postPath, nil, io.Discard, logging.NoOp())
	require.Error(t, err)
	assert.True(t, errs.IsConfiguration(err))
	assert.Contains(t, err.Error(), "credentials")
	assert.Empty(t, b.server.calls())
}

func TestRegisterPostSubmissionFailure(t *testing.T) {
	b := newBlog(t)
	b.server.status = http.StatusUnauthorized
	before := b.post(t)

	err := registerPost(context.Background(), b.cfg, b.postPath, nil, io.Discard, logging.NoOp())
	require.Error(t, err)
	assert.True(t, errs.IsSubmission(err))
	assert.Contains(t, err.Error(), "HTTP 401")

	assert.Len(t, b.server.calls(), 1, "URL registration must not follow a failed metadata call")
	assert.Equal(t, before, b.post(t))
	assert.NoFileExists(t, b.cfg.LedgerPath)
}

func TestRegisterPostSkipURL(t *testing.T) {
	b := newBlog(t)
	b.cfg.SkipURL = true

	require.NoError(t, registerPost(context.Background(), b.cfg, b.postPath, nil, io.Discard, logging.NoOp()))
	calls := b.server.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "/metadata/"+wantDOI, calls[0].path)

	store, err := ledger.NewStore(b.cfg.LedgerPath)
	require.NoError(t, err)
	defer store.Close()
	reg, found, err := store.LastFor(context.Background(), wantDOI)
	require.NoError(t, err)
	require.True(t, found)
	assert.False(t, reg.URLRegistered)
}

func TestRegisterPostMissingAuthor(t *testing.T) {
	b := newBlog(t)
	b.cfg.AuthorsDir = filepath.Join(b.dir, "nobody-here")

	err := registerPost(context.Background(), b.cfg, b.postPath, nil, io.Discard, logging.NoOp())
	require.Error(t, err)
	assert.True(t, errs.IsConfiguration(err))
	assert.Empty(t, b.server.calls())
}

func TestPostWithoutDatedFileName(t *testing.T) {
	b := newBlog(t)
	about := filepath.Join(b.dir, "_posts", "about.md")
	require.NoError(t, os.WriteFile(about, []byte(postContent), 0o644))

	err := registerPost(context.Background(), b.cfg, about, nil, io.Discard, logging.NoOp())
	require.Error(t, err)
	assert.True(t, errs.IsConfiguration(err))
	assert.Contains(t, err.Error(), "about.md")
	assert.Empty(t, b.server.calls())

	var out bytes.Buffer
	require.NoError(t, previewPost(b.cfg, about, false, &out, logging.NoOp()))
	assert.Contains(t, out.String(), "<publicationYear>2022</publicationYear>")

	dry := b.cfg
	dry.DryRun = true
	out.Reset()
	require.NoError(t, registerPost(context.Background(), dry, about, nil, &out, logging.NoOp()))
	assert.Contains(t, out.String(), "Dry run: "+wantDOI+" has no URL to register")

	skip := b.cfg
	skip.SkipURL = true
	log := &warnings{}
	require.NoError(t, registerPost(context.Background(), skip, about, nil, io.Discard, log))
	calls := b.server.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "/metadata/"+wantDOI, calls[0].path)
	assert.Contains(t, log.msgs, "post URL unavailable")

	data, err := os.ReadFile(about)
	require.NoError(t, err)
	assert.Contains(t, string(data), "doi: https://doi.org/"+wantDOI+"\n")
}

func TestRegisterPostRefusesEmptyDOIKey(t *testing.T) {
	b := newBlog(t)
	content := strings.Replace(postContent, "license: cc-by4\n", "license: cc-by4\ndoi:\n", 1)
	require.NoError(t, os.WriteFile(b.postPath, []byte(content), 0o644))

	err := registerPost(context.Background(), b.cfg, b.postPath, nil, io.Discard, logging.NoOp())
	require.Error(t, err)
	assert.True(t, errs.IsConfiguration(err))
	assert.Contains(t, err.Error(), "already exists")
	assert.Empty(t, b.server.calls())
}

func TestRegisterPostForceWarnsAboutLedgerEntry(t *testing.T) {
	b := newBlog(t)
	require.NoError(t, registerPost(context.Background(), b.cfg, b.postPath, nil, io.Discard, logging.NoOp()))

	b.cfg.Force = true
	log := &warnings{}
	require.NoError(t, registerPost(context.Background(), b.cfg, b.postPath, nil, io.Discard, log))
	assert.Contains(t, log.msgs, "DOI was registered before, overwriting its metadata")
}

func TestRegisterPostForceWithoutLedger(t *testing.T) {
	b := newBlog(t)
	b.cfg.Force = true
	log := &warnings{}
	require.NoError(t, registerPost(context.Background(), b.cfg, b.postPath, nil, io.Discard, log))
	assert.NotContains(t, log.msgs, "DOI was registered before, overwriting its metadata")
}

// warnings records warning messages.
type warnings struct{ msgs []string }

func (w *warnings) Debug(string, ...any)      {}
func (w *warnings) Info(string, ...any)       {}
func (w *warnings) Warn(msg string, _ ...any) { w.msgs = append(w.msgs, msg) }
func (w *warnings) Error(string, ...any)      {}

func TestPreviewPostWithAdditionalMetadata(t *testing.T) {
	b := newBlog(t)
	extra := filepath.Join(b.dir, "extra.json")
	require.NoError(t, os.WriteFile(extra, []byte(`{"publisher": "Command Line Press", "version": "3.0"}`), 0o644))
	b.cfg.AdditionalMetadata = extra

	var out bytes.Buffer
	require.NoError(t, previewPost(b.cfg, b.postPath, false, &out, logging.NoOp()))
	assert.Contains(t, out.String(), "<publisher>Command Line Press</publisher>")
	assert.Contains(t, out.String(), "<version>3.0</version>")
	assert.Contains(t, out.String(), "\n\t<titles>")
	assert.Empty(t, b.server.calls())
}

func TestPreviewPostJSON(t *testing.T) {
	b := newBlog(t)
	var out bytes.Buffer
	require.NoError(t, previewPost(b.cfg, b.postPath, true, &out, logging.NoOp()))

	var parsed map[string]map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &parsed))
	assert.Equal(t, "Forschungszentrum Juelich", parsed["resource"]["publisher"])
	assert.Equal(t, "2022", parsed["resource"]["publicationYear"])
}

func TestResolveCredentialsPrecedence(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	require.NoError(t, viper.BindEnv(userKey, "DJ_DATACITE_USER", "DATACITE_USER"))
	require.NoError(t, viper.BindEnv(passwordKey, "DJ_DATACITE_PASSWORD", "DATACITE_PASSWORD"))

	old := loadedSecrets
	loadedSecrets = map[string]string{"datacite-user": "secret-user", "datacite-password": "secret-pw"}
	t.Cleanup(func() { loadedSecrets = old })

	newCmd := func() *cobra.Command {
		cmd := &cobra.Command{Use: "x"}
		cmd.Flags().StringP("user", "u", "", "")
		cmd.Flags().StringP("password", "p", "", "")
		return cmd
	}

	creds := resolveCredentials(newCmd())
	assert.Equal(t, types.Credentials{User: "secret-user", Password: "secret-pw"}, creds)

	t.Setenv("DATACITE_USER", "fallback-env-user")
	assert.Equal(t, "fallback-env-user", resolveCredentials(newCmd()).User)

	t.Setenv("DJ_DATACITE_USER", "env-user")
	assert.Equal(t, "env-user", resolveCredentials(newCmd()).User)

	cmd := newCmd()
	require.NoError(t, cmd.Flags().Set("user", "flag-user"))
	creds = resolveCredentials(cmd)
	assert.Equal(t, "flag-user", creds.User)
	assert.Equal(t, "secret-pw", creds.Password)
}

func TestFormatHistory(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, formatHistory(&out, nil, false))
	assert.Equal(t, "No registrations recorded.\n", out.String())

	out.Reset()
	require.NoError(t, formatHistory(&out, nil, true))
	assert.Equal(t, "[]\n", out.String())

	out.Reset()
	entries := []types.Registration{{
		DOI:           wantDOI,
		PostPath:      "_posts/2022-08-01-gpu-kernels.md",
		URLRegistered: true,
		RegisteredAt:  time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC),
	}}
	require.NoError(t, formatHistory(&out, entries, false))
	assert.Contains(t, out.String(), wantDOI)
	assert.Contains(t, out.String(), "yes")
	assert.Contains(t, out.String(), "1 registrations")
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "doi-jekyll dev\n", out.String())
}
