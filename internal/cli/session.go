package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/ticketchat/internal/logging"
	"github.com/aretw0/ticketchat/pkg/session"
	goredis "github.com/redis/go-redis/v9"
)

// openSessions opens the configured session store without building the engine,
// so managing sessions works without Jira or model credentials.
func (o Options) openSessions() (*session.Manager, func() error, error) {
	cfg, err := o.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.ValidateSessions(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger := logging.NewNop()
	if o.Debug {
		logger = createLogger(cfg, false)
	}

	closeFn := func() error { return nil }
	var client *goredis.Client
	if cfg.Redis.URL != "" {
		redisOpts, err := goredis.ParseURL(cfg.Redis.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid redis url: %w", err)
		}
		client = goredis.NewClient(redisOpts)
		closeFn = client.Close
	}

	mgr, err := buildSessions(cfg, client, logger)
	if err != nil {
		_ = closeFn()
		return nil, nil, err
	}
	return mgr, closeFn, nil
}

// RunSessionList prints the stored session IDs.
func RunSessionList(opts Options, out io.Writer) error {
	mgr, closeFn, err := opts.openSessions()
	if err != nil {
		return err
	}
	defer closeFn()

	ids, err := mgr.List(context.Background())
	if err != nil {
		return fmt.Errorf("error listing sessions: %w", err)
	}
	if len(ids) == 0 {
		fmt.Fprintln(out, "No sessions found.")
		return nil
	}
	fmt.Fprintln(out, "Sessions:")
	for _, id := range ids {
		fmt.Fprintln(out, "- "+id)
	}
	return nil
}

// RunSessionInspect prints a stored conversation as indented JSON.
func RunSessionInspect(opts Options, sessionID string, out io.Writer) error {
	mgr, closeFn, err := opts.openSessions()
	if err != nil {
		return err
	}
	defer closeFn()

	state, err := mgr.Load(context.Background(), sessionID)
	if err != nil {
		return fmt.Errorf("error loading session '%s': %w", sessionID, err)
	}
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling state: %w", err)
	}
	fmt.Fprintln(out, string(data))
	return nil
}

// RunSessionRemove deletes every named session, reporting each one.
// It keeps going past failures and returns them joined.
func RunSessionRemove(opts Options, sessionIDs []string, out io.Writer) error {
	mgr, closeFn, err := opts.openSessions()
	if err != nil {
		return err
	}
	defer closeFn()

	var errs []error
	for _, id := range sessionIDs {
		if err := mgr.Delete(context.Background(), id); err != nil {
			errs = append(errs, fmt.Errorf("error removing '%s': %w", id, err))
			continue
		}
		fmt.Fprintf(out, "Removed session '%s'\n", id)
	}
	return errors.Join(errs...)
}
