package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"tailor-preview/core/config"
	"tailor-preview/core/database"
	"tailor-preview/core/engine"
	"tailor-preview/core/logger"
	"tailor-preview/core/preview"
	"tailor-preview/core/storage"
	"tailor-preview/core/texture"
	"tailor-preview/feature/compositor"
	"tailor-preview/feature/outfits"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// scene is a scripted preview session read from YAML.
type scene struct {
	Outfit  string               `yaml:"outfit"`
	Config  *engine.OutfitConfig `yaml:"config"`
	Width   string               `yaml:"width"`
	Height  string               `yaml:"height"`
	Options *engine.Options      `yaml:"options"`
	Steps   []sceneStep          `yaml:"steps"`
}

// sceneStep changes the session; every set field is applied in order
// outfit, options, textures.
type sceneStep struct {
	Outfit   string               `yaml:"outfit"`
	Config   *engine.OutfitConfig `yaml:"config"`
	Options  *engine.Options      `yaml:"options"`
	Textures texture.Map          `yaml:"textures"`
}

// outfitResolver resolves an outfit name to its config.
type outfitResolver func(ctx context.Context, name string) (engine.OutfitConfig, error)

func loadScene(path string) (*scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene: %w", err)
	}
	var s scene
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse scene %s: %w", path, err)
	}
	if s.Config == nil && s.Outfit == "" {
		return nil, fmt.Errorf("scene %s needs an outfit or a config", path)
	}
	return &s, nil
}

func (s sceneStep) outfitSet() bool {
	return s.Config != nil || s.Outfit != ""
}

func resolveOutfit(ctx context.Context, name string, cfg *engine.OutfitConfig, resolve outfitResolver) (engine.OutfitConfig, error) {
	if cfg != nil {
		return *cfg, nil
	}
	if resolve == nil {
		return engine.OutfitConfig{}, fmt.Errorf("outfit %q needs the outfit catalog", name)
	}
	return resolve(ctx, name)
}

// runScene plays the scene against p and returns the settled state after every step.
// The initial outfit, options and textures of the first step are set before the
// engine is created.
func runScene(ctx context.Context, p *preview.Preview, s *scene, resolve outfitResolver, stepTimeout time.Duration, l *zap.Logger) ([]preview.State, error) {
	initial, err := resolveOutfit(ctx, s.Outfit, s.Config, resolve)
	if err != nil {
		return nil, err
	}
	if s.Options != nil {
		if err := p.SetOptions(*s.Options); err != nil {
			return nil, err
		}
	}

	steps := s.Steps
	if len(steps) > 0 && !steps[0].outfitSet() && steps[0].Options == nil && steps[0].Textures != nil {
		// Textures known up front are queued before the engine exists.
		if err := p.SetTextures(steps[0].Textures); err != nil {
			return nil, err
		}
		steps = steps[1:]
	}
	if err := p.SetOutfit(ctx, initial); err != nil {
		return nil, err
	}

	states := []preview.State{}
	settle := func(step int) error {
		waitCtx, cancel := context.WithTimeout(ctx, stepTimeout)
		defer cancel()
		if err := p.Wait(waitCtx); err != nil {
			return fmt.Errorf("step %d did not settle: %w", step, err)
		}
		state := p.State()
		states = append(states, state)
		l.Info("Step settled",
			zap.Int("step", step),
			zap.Bool("ready", state.Ready),
			zap.Strings("errors", state.Errors))
		return nil
	}
	if err := settle(0); err != nil {
		return states, err
	}

	for i, step := range steps {
		if step.outfitSet() {
			cfg, err := resolveOutfit(ctx, step.Outfit, step.Config, resolve)
			if err != nil {
				return states, err
			}
			if err := p.SetOutfit(ctx, cfg); err != nil {
				return states, err
			}
		}
		if step.Options != nil {
			if err := p.SetOptions(*step.Options); err != nil {
				return states, err
			}
		}
		if step.Textures != nil {
			if err := p.SetTextures(step.Textures); err != nil {
				return states, err
			}
		}
		if err := settle(i + 1); err != nil {
			return states, err
		}
	}
	return states, nil
}

// renderCmd represents the render command
var renderCmd = &cobra.Command{
	Use:   "render <scene.yaml>",
	Short: "Render a scripted preview scene",
	Long: `Plays a YAML scene (an outfit plus a list of texture map steps) against the
rendering engine and writes the resulting preview to storage.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		cfg, err := config.LoadConfig(".")
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		defer logg.Sync()

		s, err := loadScene(args[0])
		if err != nil {
			return err
		}

		store, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return err
		}
		factory, err := compositor.NewFactory(store, cfg.Storage.Bucket, cfg.Engine, logg)
		if err != nil {
			return err
		}

		var resolve outfitResolver
		if db, err := database.Connect(cfg.Database); err != nil {
			logg.Debug("Outfit catalog unavailable", zap.Error(err))
		} else {
			resolve = outfits.NewService(outfits.NewRepository(db), logg).Lookup
		}

		id, _ := cmd.Flags().GetString("id")
		if id == "" {
			id = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
		}
		l := logger.WithPreview(logg, id)

		p := preview.New(factory, l, preview.Settings{
			Mount:         engine.Mount{ID: id, Width: s.Width, Height: s.Height},
			ShowLoader:    cfg.Preview.ShowLoader,
			ShowErrors:    cfg.Preview.ShowErrors,
			QueueCapacity: cfg.Preview.QueueCapacity,
			Hooks: preview.Hooks{
				OnError: func(msg string) { l.Warn("Engine error", zap.String("error", msg)) },
			},
		})
		defer p.Close()

		timeout := time.Duration(cfg.Preview.WaitTimeoutSeconds) * time.Second
		if timeout <= 0 {
			timeout = time.Minute
		}
		states, err := runScene(ctx, p, s, resolve, timeout, l)
		if err != nil {
			return err
		}

		final := states[len(states)-1]
		l.Info("Scene rendered",
			zap.String("key", factory.OutputKey(id)),
			zap.Int("steps", len(states)),
			zap.Int("errors", len(final.Errors)))
		return nil
	},
}

func init() {
	renderCmd.Flags().String("id", "", "Mount ID used for the output key (defaults to the scene file name)")
	RootCmd.AddCommand(renderCmd)
}
