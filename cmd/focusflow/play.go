package main

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lixenwraith/focusflow/analyzer"
	"github.com/lixenwraith/focusflow/audio"
	"github.com/lixenwraith/focusflow/backend"
	"github.com/lixenwraith/focusflow/config"
	"github.com/lixenwraith/focusflow/core"
	"github.com/lixenwraith/focusflow/engine"
	"github.com/lixenwraith/focusflow/event"
	"github.com/lixenwraith/focusflow/gaze"
	"github.com/lixenwraith/focusflow/render"
	"github.com/lixenwraith/focusflow/service"
	"github.com/lixenwraith/focusflow/status"
	"github.com/lixenwraith/focusflow/trainer"
)

const (
	renderInterval    = 33 * time.Millisecond
	statusLogInterval = 5 * time.Second
)

type playFlags struct {
	level    string
	source   string
	replay   string
	duration time.Duration
	mute     bool
	seed     uint64
}

func newPlayCmd(opts *globalOptions) *cobra.Command {
	var f playFlags
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a training session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer a.close()

			sum, err := runPlay(cmd.Context(), a, f)
			if err != nil {
				var ce *gaze.CapabilityError
				if errors.As(err, &ce) {
					return fmt.Errorf("%w\n%s", err, ce.Hint())
				}
				return err
			}
			printSummary(cmd.OutOrStdout(), sum)
			return nil
		},
	}
	cmd.Flags().StringVar(&f.level, "level", string(core.Level1), "level1|level2|level3")
	cmd.Flags().StringVar(&f.source, "source", "", "gaze source: pointer|replay|synthetic (default FOCUSFLOW_GAZE_SOURCE)")
	cmd.Flags().StringVar(&f.replay, "replay", "", "trace file for the replay source")
	cmd.Flags().DurationVar(&f.duration, "duration", 0, "session length (default FOCUSFLOW_SESSION_DURATION)")
	cmd.Flags().BoolVar(&f.mute, "mute", false, "disable audio cues")
	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "object placement seed, 0 is random")
	return cmd
}

// applyPlayFlags overrides configuration with command flags and revalidates
func applyPlayFlags(cfg *config.Config, f playFlags) error {
	if f.source != "" {
		cfg.GazeSource = f.source
	}
	if f.replay != "" {
		cfg.ReplayPath = f.replay
		if f.source == "" {
			cfg.GazeSource = config.GazeReplay
		}
	}
	if f.duration > 0 {
		cfg.SessionDuration = f.duration
	}
	if f.mute {
		cfg.Mute = true
	}
	return cfg.Validate()
}

// resolveSubmitter returns the uploader and profile, or nil when the session stays local
func resolveSubmitter(ctx context.Context, a *app) (trainer.Submitter, backend.Profile) {
	if a.client == nil {
		return nil, backend.Profile{}
	}
	p, err := a.identity.ValidatedActiveProfile(ctx, a.client)
	if err != nil {
		a.log.Warn("active profile unreadable", zap.Error(err))
		return nil, backend.Profile{}
	}
	if p == nil {
		a.log.Warn("no active profile, session will not be uploaded")
		return nil, backend.Profile{}
	}
	return a.client, *p
}

func runPlay(ctx context.Context, a *app, f playFlags) (trainer.Summary, error) {
	level, err := core.ParseLevel(f.level)
	if err != nil {
		return trainer.Summary{}, err
	}
	cfg := a.cfg
	if err := applyPlayFlags(cfg, f); err != nil {
		return trainer.Summary{}, err
	}

	userID, err := a.identity.UserID(ctx)
	if err != nil {
		return trainer.Summary{}, err
	}
	submitter, profile := resolveSubmitter(ctx, a)

	screen, err := tcell.NewScreen()
	if err != nil {
		return trainer.Summary{}, fmt.Errorf("create terminal: %w", err)
	}
	player := audio.NewPlayer(a.log, audio.WithMuted(cfg.Mute))

	hub := service.NewHub(a.log)
	if err := hub.Register(terminalService(screen)); err != nil {
		return trainer.Summary{}, err
	}
	if err := hub.Register(player); err != nil {
		return trainer.Summary{}, err
	}
	if err := hub.InitAll(ctx); err != nil {
		return trainer.Summary{}, err
	}
	defer func() {
		if err := hub.StopAll(context.WithoutCancel(ctx)); err != nil {
			a.log.Warn("shutdown incomplete", zap.Error(err))
		}
	}()
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()
	if err := hub.StartAll(ctx); err != nil {
		return trainer.Summary{}, err
	}

	reg := status.NewRegistry()
	reg.Bools.Get(status.KeyAudio).Store(player.Ready())
	queue := event.NewQueue()

	cols, rows := screen.Size()
	vp := render.NewViewport(cols, rows, cfg.CanvasWidth, cfg.CanvasHeight)
	renderer := render.NewTerminalRenderer(screen, vp)

	var ctrl *trainer.Controller
	var pointer *gaze.PointerSource
	var src gaze.Source
	switch cfg.GazeSource {
	case config.GazePointer:
		pointer = gaze.NewPointerSource(screen, vp)
		src = pointer
	case config.GazeReplay:
		src = gaze.NewReplaySource(gaze.ReplayConfig{Path: cfg.ReplayPath, Paced: true, Loop: cfg.ReplayLoop})
	case config.GazeSynthetic:
		src = gaze.NewSyntheticSource(gaze.SyntheticConfig{
			Target: gaze.FollowTracked(func() engine.Frame { return ctrl.Engine().Snapshot() }),
			Jitter: cfg.SyntheticJitter,
			Lapse:  cfg.SyntheticLapse,
			Width:  cfg.CanvasWidth,
			Height: cfg.CanvasHeight,
			Seed:   f.seed,
		})
	default:
		return trainer.Summary{}, fmt.Errorf("unknown gaze source %q", cfg.GazeSource)
	}

	getReady := int(cfg.GetReady / time.Second)
	var readyLeft atomic.Int64
	readyLeft.Store(int64(getReady))

	opts := []trainer.Option{
		trainer.WithAnalyzer(analyzer.NewService(a.history, a.log)),
		trainer.WithStatus(reg),
		trainer.WithLogger(a.log),
		trainer.WithEngineOptions(engine.WithNotify(queue)),
		trainer.WithHooks(trainer.Hooks{
			OnGetReady: func(n int) {
				readyLeft.Store(int64(n))
				player.Play(audio.CueCountdown)
			},
			OnStart: func() { player.Play(audio.CueStart) },
			OnEnd:   func(trainer.Summary) { player.Play(audio.CueSessionEnd) },
		}),
	}
	if submitter != nil {
		opts = append(opts, trainer.WithSubmitter(submitter))
	}
	ctrl, err = trainer.New(trainer.Config{
		Level:           level,
		Engine:          engine.Config{Width: cfg.CanvasWidth, Height: cfg.CanvasHeight, Seed: f.seed},
		SessionSeconds:  cfg.SessionSeconds(),
		GetReadySeconds: getReady,
		InitTimeout:     cfg.InitTimeout,
		SubmitTimeout:   cfg.SubmitTimeout,
		MetricsMode:     cfg.MetricsMode(),
		UserID:          userID,
		Profile:         profile,
	}, src, opts...)
	if err != nil {
		return trainer.Summary{}, err
	}

	quit := make(chan struct{})
	defer close(quit)
	events := make(chan tcell.Event, 256)
	core.Go(func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	})

	hud := func(msg string) render.HUD {
		return render.HUD{Remaining: ctrl.Remaining(), Message: msg, Source: src.Name(), Muted: player.Muted()}
	}

	// Calibration, capability failures offer a retry
	for {
		renderer.Render(ctrl.Engine().Snapshot(), hud(fmt.Sprintf("Calibrating %s...", src.Name())))
		err := ctrl.Calibrate(ctx)
		if err == nil {
			break
		}
		var ce *gaze.CapabilityError
		if !errors.As(err, &ce) {
			ctrl.End(ctx, trainer.ReasonFailed)
			return trainer.Summary{}, err
		}
		renderer.Render(ctrl.Engine().Snapshot(), hud(ce.Hint()+"  [r] retry  [q] quit"))
		if !waitRetry(ctx, events) {
			ctrl.End(ctx, trainer.ReasonCancelled)
			return trainer.Summary{}, err
		}
	}

	if err := ctrl.Begin(ctx); err != nil {
		return ctrl.End(ctx, trainer.ReasonFailed), err
	}

	frame := time.NewTicker(renderInterval)
	defer frame.Stop()
	statusLog := time.NewTicker(statusLogInterval)
	defer statusLog.Stop()

	var ending bool
	end := func(reason trainer.EndReason) {
		if ending {
			return
		}
		ending = true
		core.Go(func() { ctrl.End(ctx, reason) })
	}
	cancelled := ctx.Done()

	for {
		select {
		case <-ctrl.Done():
			return ctrl.End(ctx, trainer.ReasonStopped), nil

		case <-cancelled:
			cancelled = nil
			end(trainer.ReasonCancelled)

		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if isQuit(ev) {
					end(trainer.ReasonStopped)
				} else if ev.Rune() == 'm' {
					player.SetMuted(!player.Muted())
				}
			case *tcell.EventResize:
				vp.Resize(ev.Size())
				screen.Sync()
			case *tcell.EventMouse:
				if pointer != nil {
					pointer.HandleEvent(ev)
				}
			}

		case <-frame.C:
			player.Drain(queue)
			msg := ""
			switch {
			case ending:
				msg = "Saving session..."
			case ctrl.Phase() == trainer.PhaseGetReady:
				msg = fmt.Sprintf("Get ready: %d", readyLeft.Load())
			}
			renderer.Render(ctrl.Engine().Snapshot(), hud(msg))

		case <-statusLog.C:
			a.log.Debug("status", reg.Fields()...)
		}
	}
}

// terminalService owns the tcell screen and the crash handler that restores it
func terminalService(screen tcell.Screen) service.Service {
	var fini sync.Once
	return &service.Func{
		ID: "terminal",
		OnInit: func(context.Context) error {
			if err := screen.Init(); err != nil {
				return fmt.Errorf("init terminal: %w", err)
			}
			core.SetCrashHandler(screen)
			screen.SetStyle(tcell.StyleDefault.Background(render.RgbBackground))
			screen.HideCursor()
			return nil
		},
		OnStop: func(context.Context) error {
			fini.Do(func() {
				core.SetCrashHandler(nil)
				screen.Fini()
			})
			return nil
		},
	}
}

func isQuit(k *tcell.EventKey) bool {
	switch k.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return k.Rune() == 'q'
	}
	return false
}

// waitRetry blocks until the player chooses to retry or quit
func waitRetry(ctx context.Context, events <-chan tcell.Event) bool {
	for {
		select {
		case <-ctx.Done():
			return false
		case ev := <-events:
			k, ok := ev.(*tcell.EventKey)
			if !ok {
				continue
			}
			if isQuit(k) {
				return false
			}
			if k.Key() == tcell.KeyEnter || k.Rune() == 'r' {
				return true
			}
		}
	}
}
