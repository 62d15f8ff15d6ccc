package ioc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/KNICEX/ask-ai/internal/service/llm"
	"github.com/KNICEX/ask-ai/internal/service/llm/gemini"
	"github.com/caarlos0/env/v9"
	"github.com/google/generative-ai-go/genai"
	"github.com/samber/lo"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// ModelConfig maps a client-facing id to a provider model reference. It is a
// list entry rather than a map key because model ids contain dots, which
// viper treats as key separators.
type ModelConfig struct {
	Id  string `mapstructure:"id"`
	Ref string `mapstructure:"ref"`
}

// DefaultModels is the model table used when llm.gemini.models is not configured.
var DefaultModels = []ModelConfig{
	{Id: "gemini-1.5-flash", Ref: "gemini-1.5-flash"},
	{Id: "packagetestv2-nettsfkvxpqs", Ref: "tunedModels/packagetestv2-nettsfkvxpqs"},
}

type geminiCredentials struct {
	ApiKey string `env:"GOOGLE_API_KEY,required"`
}

func InitGeminiCli() *genai.Client {
	var cred geminiCredentials
	if err := env.Parse(&cred); err != nil {
		panic(err)
	}

	cli, err := genai.NewClient(context.Background(), option.WithAPIKey(cred.ApiKey))
	if err != nil {
		panic(err)
	}
	return cli
}

func InitModelRegistry(cli *genai.Client, logger *zap.Logger) *llm.Registry {
	type Config struct {
		Models []ModelConfig `mapstructure:"models"`
	}

	var cfg Config
	if err := viper.UnmarshalKey("llm.gemini", &cfg); err != nil {
		panic(err)
	}
	refs, err := modelRefs(cfg.Models)
	if err != nil {
		panic(err)
	}

	genCfg := llm.DefaultGenerationConfig()
	models := make(map[string]llm.Model, len(refs))
	for id, ref := range refs {
		models[id] = gemini.NewModel(cli, ref, genCfg)
	}
	reg := llm.NewRegistry(models)
	logger.Info("model registry ready", zap.Strings("models", reg.Names()))
	return reg
}

func InitFileStore(cli *genai.Client, logger *zap.Logger) *gemini.FileStore {
	type Config struct {
		PollInterval time.Duration `mapstructure:"poll_interval"`
	}

	var cfg Config
	if err := viper.UnmarshalKey("llm.gemini", &cfg); err != nil {
		panic(err)
	}
	return gemini.NewFileStore(cli,
		gemini.WithPollInterval(cfg.PollInterval),
		gemini.WithLogger(logger.Named("gemini.files")))
}

// modelRefs flattens the configured table, falling back to DefaultModels.
// An entry without ref uses its id as the provider model name.
func modelRefs(cfgs []ModelConfig) (map[string]string, error) {
	if len(cfgs) == 0 {
		cfgs = DefaultModels
	}
	refs := make(map[string]string, len(cfgs))
	for _, c := range cfgs {
		if c.Id == "" {
			return nil, errors.New("llm.gemini.models: entry without id")
		}
		if _, ok := refs[c.Id]; ok {
			return nil, fmt.Errorf("llm.gemini.models: duplicate id %q", c.Id)
		}
		refs[c.Id] = lo.Ternary(c.Ref == "", c.Id, c.Ref)
	}
	return refs, nil
}
