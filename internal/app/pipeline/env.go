package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/sirupsen/logrus"

	"github.com/tyler180/fpl-championship-analysis/internal/config"
	"github.com/tyler180/fpl-championship-analysis/internal/fetch"
	"github.com/tyler180/fpl-championship-analysis/internal/logging"
)

// HTTPGetter is what the download steps need from fetch.Client.
type HTTPGetter interface {
	GetText(ctx context.Context, url, referer string) (string, error)
	GetBytes(ctx context.Context, url, referer string) ([]byte, error)
}

// Env carries the loaded configuration and shared clients into a step.
type Env struct {
	Cfg  *config.Config
	HTTP HTTPGetter
	Log  *logrus.Entry
}

// Step is one pipeline stage.
type Step func(ctx context.Context, env *Env, e Event) (Summary, error)

// NewEnv loads configuration from CONFIG_DIR and builds a polite HTTP client.
func NewEnv(component string) (*Env, error) {
	cfg, err := config.Load(config.Dir())
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	p := cfg.Parameters
	client := fetch.New(fetch.Options{
		Name:        component,
		Timeout:     time.Duration(p.HTTPTimeoutSeconds) * time.Second,
		Delay:       p.SleepTime(),
		MaxAttempts: p.HTTPMaxAttempts,
		RetryBase:   time.Duration(p.HTTPRetryBaseMS) * time.Millisecond,
		RetryMax:    time.Duration(p.HTTPRetryMaxMS) * time.Millisecond,
		Cooldown:    time.Duration(p.HTTPCooldownMS) * time.Millisecond,
	})
	return &Env{Cfg: cfg, HTTP: client, Log: logging.WithComponent(component)}, nil
}

// Entrypoint adapts a step to the Lambda handler signature.
func Entrypoint(component string, step Step) func(context.Context, Raw) (Summary, error) {
	return func(ctx context.Context, raw Raw) (Summary, error) {
		var e Event
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &e); err != nil {
				return nil, fmt.Errorf("decode event: %w", err)
			}
		}
		env, err := NewEnv(component)
		if err != nil {
			return nil, err
		}
		start := time.Now()
		out, err := step(ctx, env, e)
		if err != nil {
			env.Log.WithError(err).Error("step failed")
			return nil, err
		}
		env.Log.WithField("elapsed", time.Since(start).Round(time.Millisecond).String()).Info("step complete")
		return out, nil
	}
}

// Main runs step under the Lambda runtime when deployed, otherwise once
// locally with the event read from EVENT_JSON.
func Main(component string, step Step) {
	logging.InitLogger("", !logging.IsLambda())
	handler := Entrypoint(component, step)
	if logging.IsLambda() {
		lambda.Start(handler)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out, err := handler(ctx, Raw(config.Getenv("EVENT_JSON", "")))
	if err != nil {
		logging.WithComponent(component).Fatalf("%s failed: %v", component, err)
	}
	j, _ := json.MarshalIndent(out, "", "  ")
	fmt.Println(string(j))
}
