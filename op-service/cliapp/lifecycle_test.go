package cliapp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

type fakeLifecycle struct {
	startCh, stopCh chan error
	stopped         bool
	selfClose       context.CancelCauseFunc
}

func (f *fakeLifecycle) Start(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-f.startCh:
		f.stopped = false
		return err
	}
}

func (f *fakeLifecycle) Stop(ctx context.Context) error {
	select {
	case <-ctx.Done():
		f.stopped = true
		return ctx.Err()
	case err := <-f.stopCh:
		f.stopped = true
		return err
	}
}

func (f *fakeLifecycle) Stopped() bool {
	return f.stopped
}

var _ Lifecycle = (*fakeLifecycle)(nil)

func TestLifecycleCmd(t *testing.T) {
	type result struct {
		err error
		app *fakeLifecycle
	}

	appSetup := func(ctx *cli.Context, close context.CancelCauseFunc) (Lifecycle, error) {
		select {
		case <-ctx.Context.Done():
			return nil, context.Cause(ctx.Context)
		case v := <-ctx.App.Metadata["setupErr"].(chan error):
			if v != nil {
				return nil, v
			}
			return &fakeLifecycle{
				startCh:   ctx.App.Metadata["startCh"].(chan error),
				stopCh:    ctx.App.Metadata["stopCh"].(chan error),
				stopped:   true,
				selfClose: close,
			}, nil
		}
	}

	// puts the setup in a separate goroutine, so we can control the app lifecycle from the test
	setupTest := func() (signalCancel context.CancelFunc, setupErrCh, startCh, stopCh chan error, resultCh chan result, appCh chan *fakeLifecycle) {
		setupErrCh = make(chan error, 1)
		startCh = make(chan error, 1)
		stopCh = make(chan error, 1)
		resultCh = make(chan result, 1)
		appCh = make(chan *fakeLifecycle, 1)

		app := cli.NewApp()
		app.Metadata = map[string]any{
			"setupErr": setupErrCh,
			"startCh":  startCh,
			"stopCh":   stopCh,
		}
		app.Action = LifecycleCmd(func(ctx *cli.Context, close context.CancelCauseFunc) (Lifecycle, error) {
			l, err := appSetup(ctx, close)
			if err == nil {
				appCh <- l.(*fakeLifecycle)
			}
			return l, err
		})

		signalCtx, signalCancel := context.WithCancel(context.Background())
		go func() {
			err := app.RunContext(signalCtx, []string{"test"})
			resultCh <- result{err: err}
		}()
		return
	}

	t.Run("interrupt during setup", func(t *testing.T) {
		signalCancel, _, _, _, resultCh, _ := setupTest()
		signalCancel()
		res := <-resultCh
		require.ErrorIs(t, res.err, interruptErr)
		require.ErrorContains(t, res.err, "failed to setup")
	})

	t.Run("failed setup", func(t *testing.T) {
		_, setupErrCh, _, _, resultCh, _ := setupTest()
		setupErrCh <- errors.New("boom")
		res := <-resultCh
		require.ErrorContains(t, res.err, "boom")
	})

	t.Run("failed start", func(t *testing.T) {
		_, setupErrCh, startCh, _, resultCh, appCh := setupTest()
		setupErrCh <- nil
		app := <-appCh
		require.True(t, app.Stopped())
		startCh <- errors.New("start failed")
		res := <-resultCh
		require.ErrorContains(t, res.err, "failed to start")
	})

	t.Run("graceful stop on interrupt", func(t *testing.T) {
		signalCancel, setupErrCh, startCh, stopCh, resultCh, appCh := setupTest()
		setupErrCh <- nil
		app := <-appCh
		startCh <- nil
		stopCh <- nil
		signalCancel()
		res := <-resultCh
		require.NoError(t, res.err)
		require.True(t, app.Stopped())
	})

	t.Run("self close", func(t *testing.T) {
		_, setupErrCh, startCh, stopCh, resultCh, appCh := setupTest()
		setupErrCh <- nil
		app := <-appCh
		startCh <- nil
		stopCh <- errors.New("stop failed")
		app.selfClose(errors.New("done"))
		select {
		case res := <-resultCh:
			require.ErrorContains(t, res.err, "failed to stop")
		case <-time.After(5 * time.Second):
			t.Fatal("app did not stop")
		}
	})
}
