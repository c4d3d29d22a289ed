package main

// tray.go
//
// System tray controller for the batch loop, using getlantern/systray.
//
// Menu Structure:
//
//	QWOP Bot
//	├─ Status: phase | games | best (read-only, refreshed every second)
//	├─ Start (locate the game and play until stopped)
//	├─ Stop (abort the current run, release all keys)
//	├─ Best: distance (read-only)
//	└─ Quit (stop, close the environment and exit)
//
// Concurrency Model:
//   - systray owns the main goroutine (Run blocks)
//   - handleEvents services menu clicks
//   - refreshStatus polls the runner phase and batch statistics
//   - each Start spawns one batch goroutine, which locates the game and
//     plays; Stop raises the session stop flag and cancels its context, and
//     the batch returns at the next key event

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/getlantern/systray"
	"github.com/spf13/cobra"

	"qwop-bot/internal/logging"
	"qwop-bot/internal/runner"
	"qwop-bot/internal/session"
)

var trayCmd = &cobra.Command{
	Use:   "tray",
	Short: "Control the batch from a system tray menu",
	Long: `Show a system tray menu with Start, Stop and Quit. Start locates the
game and plays generated strings (or --string) until stopped. Runs are
recorded as with 'qwopbot play'.`,
	Args: cobra.NoArgs,
	RunE: runTray,
}

func init() {
	trayCmd.Flags().IntVar(&flagDuration, "duration", 0, "Generated string length in ticks (0 = config)")
	trayCmd.Flags().StringVar(&flagString, "string", "", "Play this control string instead of generating")
	trayCmd.Flags().Int64Var(&flagSeed, "seed", 0, "Generator seed (0 = config, then clock)")
}

func runTray(cmd *cobra.Command, args []string) error {
	next, err := controlSource()
	if err != nil {
		return err
	}

	a, err := newApp(cmd.Context(), cfg, true)
	if err != nil {
		return err
	}
	defer a.close()

	NewTrayApp(a, next).Run()
	return nil
}

// TrayApp manages the system tray menu and the batch it controls
type TrayApp struct {
	app  *app
	next runner.Source

	statusItem *systray.MenuItem
	startItem  *systray.MenuItem
	stopItem   *systray.MenuItem
	bestItem   *systray.MenuItem
	quitItem   *systray.MenuItem

	mu     sync.Mutex
	sess   *session.Session
	cancel context.CancelFunc
	done   chan struct{}
	stats  *runner.Statistics
}

// NewTrayApp creates a new tray application
func NewTrayApp(a *app, next runner.Source) *TrayApp {
	return &TrayApp{app: a, next: next, stats: runner.NewStatistics()}
}

// Run starts the tray application. It blocks until Quit.
func (t *TrayApp) Run() {
	logging.Infof("Starting system tray application")
	systray.Run(t.onReady, func() {
		logging.Infof("System tray onExit callback triggered")
		t.stop()
		t.wait()
	})
	logging.Infof("System tray Run() returned")
}

// onReady is called when the tray is ready
func (t *TrayApp) onReady() {
	systray.SetTitle("QWOP Bot")
	systray.SetTooltip("QWOP Bot")

	t.statusItem = systray.AddMenuItem("Status: Idle", "Current bot status")
	t.statusItem.Disable()

	systray.AddSeparator()

	t.startItem = systray.AddMenuItem("Start", "Locate the game and start playing")
	t.stopItem = systray.AddMenuItem("Stop", "Stop the current run")
	t.stopItem.Disable()

	systray.AddSeparator()

	t.bestItem = systray.AddMenuItem("Best: -", "Furthest run this session")
	t.bestItem.Disable()

	systray.AddSeparator()

	t.quitItem = systray.AddMenuItem("Quit", "Quit the application")

	go t.handleEvents()
	go t.refreshStatus()

	logging.Infof("System tray initialized")
}

// handleEvents handles tray menu events
func (t *TrayApp) handleEvents() {
	for {
		select {
		case <-t.startItem.ClickedCh:
			t.start()
		case <-t.stopItem.ClickedCh:
			t.stop()
		case <-t.quitItem.ClickedCh:
			logging.Infof("Quit requested by user")
			t.stop()
			t.wait()
			systray.Quit()
			return
		}
	}
}

// start publishes a new batch and launches its goroutine. The lock only
// guards the handoff; locating the game happens on the batch goroutine.
func (t *TrayApp) start() {
	t.mu.Lock()
	if t.done != nil {
		t.mu.Unlock()
		logging.Debugf("Start ignored, batch already running")
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	t.cancel, t.done = cancel, done
	t.mu.Unlock()

	t.setRunning(true)
	go t.runBatch(ctx, done)
}

// runBatch locates the game and plays until stopped
func (t *TrayApp) runBatch(ctx context.Context, done chan struct{}) {
	defer func() {
		t.mu.Lock()
		if t.cancel != nil {
			t.cancel()
		}
		t.sess, t.cancel, t.done = nil, nil, nil
		t.mu.Unlock()
		t.setRunning(false)
		close(done)
	}()

	sess, err := t.app.runner.Locate()
	if err != nil {
		logging.Errorf("Cannot start: %v", err)
		setTitle(t.statusItem, "Status: game not found")
		return
	}

	t.mu.Lock()
	t.sess = sess
	t.mu.Unlock()
	if ctx.Err() != nil {
		logging.Infof("Stopped before the first game")
		return
	}

	_, err = t.app.runner.RunBatch(ctx, sess, runner.Batch{
		Next:      t.next,
		OnOutcome: t.app.record,
	}, t.stats)
	if err != nil {
		logging.Errorf("Batch ended: %v", err)
	}
	logging.Infof("Batch stopped: %s", t.stats.Summary())
}

// setRunning flips the Start and Stop items
func (t *TrayApp) setRunning(running bool) {
	if t.startItem == nil || t.stopItem == nil {
		return
	}
	if running {
		t.startItem.Disable()
		t.stopItem.Enable()
	} else {
		t.startItem.Enable()
		t.stopItem.Disable()
	}
}

func setTitle(item *systray.MenuItem, title string) {
	if item != nil {
		item.SetTitle(title)
	}
}

// stop aborts the running batch, if any
func (t *TrayApp) stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.sess != nil {
		t.sess.Stop()
	}
	if t.cancel != nil {
		t.cancel()
	}
}

// wait blocks until the batch goroutine has released the keys and returned
func (t *TrayApp) wait() {
	t.mu.Lock()
	done := t.done
	t.mu.Unlock()
	if done != nil {
		<-done
	}
}

// refreshStatus updates the status and best items once a second
func (t *TrayApp) refreshStatus() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for range ticker.C {
		status := fmt.Sprintf("Status: %s | %s", t.app.runner.State(), t.stats.Summary())
		t.statusItem.SetTitle(status)
		systray.SetTooltip(status)

		if best, s := t.stats.Best(); s != "" {
			t.bestItem.SetTitle(fmt.Sprintf("Best: %.1fm %s", best, s))
		}
	}
}
