package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jonathan/resume-pilot/internal/api"
	"github.com/jonathan/resume-pilot/internal/config"
	"github.com/jonathan/resume-pilot/internal/credentials"
	"github.com/jonathan/resume-pilot/internal/session"
	"github.com/jonathan/resume-pilot/internal/template"
)

// loadConfig reads the --config file when given, otherwise returns an empty
// config so flag/env resolution still applies.
func loadConfig() (*config.Config, error) {
	if configFlag == "" {
		return &config.Config{}, nil
	}
	cfg, err := config.LoadConfig(configFlag)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolveBaseDir returns the effective credentials/history directory:
// flag, then config, then ~/.resume-pilot.
func resolveBaseDir(cfg *config.Config) (string, error) {
	if baseDirFlag != "" {
		return baseDirFlag, nil
	}
	if cfg.BaseDir != "" {
		return cfg.BaseDir, nil
	}
	return credentials.DefaultBaseDir()
}

// newClient builds the API client from resolved configuration.
func newClient(cfg *config.Config) (*api.Client, error) {
	opts := api.DefaultOptions()
	opts.Timeout = cfg.Timeout()
	return api.New(cfg.ResolveAPIURL(apiURLFlag), opts)
}

// newManager wires the client to the file-backed credential store.
func newManager(cfg *config.Config, client *api.Client) (*session.Manager, error) {
	baseDir, err := resolveBaseDir(cfg)
	if err != nil {
		return nil, err
	}
	store := credentials.NewFileStore(baseDir)
	return session.NewManager(client, store, session.WithVerbose(isVerbose(cfg))), nil
}

func isVerbose(cfg *config.Config) bool {
	return verbose || cfg.Verbose
}

// guestToken bootstraps (resume or create) and returns the active token.
func guestToken(ctx context.Context, cfg *config.Config, client *api.Client) (string, error) {
	mgr, err := newManager(cfg, client)
	if err != nil {
		return "", err
	}
	sess, err := mgr.Bootstrap(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to start a session: %w", err)
	}
	return sess.GuestToken, nil
}

// newPipeline bootstraps a session and loads the structured resume for the
// given analysis, ready for edit/preview/download operations.
func newPipeline(ctx context.Context, analysisID, templateID string) (*template.Pipeline, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	client, err := newClient(cfg)
	if err != nil {
		return nil, nil, err
	}
	token, err := guestToken(ctx, cfg, client)
	if err != nil {
		return nil, nil, err
	}
	if templateID == "" {
		templateID = cfg.Template
	}
	pipeline := template.New(client, token, analysisID, templateID, template.WithVerbose(isVerbose(cfg)))
	if err := pipeline.Load(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to load structured resume: %w", err)
	}
	return pipeline, cfg, nil
}

// authToken returns the stored authenticated-user token, failing when none
// is stored or the token is past its exp claim.
func authToken(cfg *config.Config) (string, error) {
	baseDir, err := resolveBaseDir(cfg)
	if err != nil {
		return "", err
	}
	creds, err := credentials.NewFileStore(baseDir).Load()
	if err != nil {
		return "", fmt.Errorf("no stored account token; sign in on the web app first")
	}
	if !creds.AuthTokenValid(time.Now()) {
		return "", fmt.Errorf("stored account token is missing or expired; sign in again")
	}
	return creds.AuthToken, nil
}
