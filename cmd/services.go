package cmd

import (
	"context"
	"fmt"

	"github.com/abhisek/lectio/internal/auth"
	"github.com/abhisek/lectio/internal/config"
	"github.com/abhisek/lectio/internal/leveling"
	"github.com/abhisek/lectio/internal/llm"
	"github.com/abhisek/lectio/internal/passage"
	"github.com/abhisek/lectio/internal/practice"
	"github.com/abhisek/lectio/internal/questiongen"
	"github.com/abhisek/lectio/internal/store"
)

var envOr = config.EnvOr

// services is the wired core shared by the TUI and the HTTP server.
type services struct {
	auth     *auth.Service
	practice *practice.Service
}

func buildServices(ctx context.Context, st *store.Store, authCfg auth.Config) (*services, error) {
	provider, err := llm.NewProviderFromEnv(ctx, st.EventRepo())
	if err != nil {
		return nil, fmt.Errorf("configure LLM provider: %w", err)
	}

	policy := leveling.PolicyFromEnv()
	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("leveling policy: %w", err)
	}
	authCfg.StartLevel = policy.MinLevel

	qcfg := questiongen.DefaultConfig()
	qcfg.Count = config.EnvInt("LECTIO_QUESTION_COUNT", qcfg.Count)
	qcfg.StructuredOutput = config.EnvBool("LECTIO_STRUCTURED_OUTPUT", qcfg.StructuredOutput)

	return &services{
		auth: auth.NewService(st.UserRepo(), authCfg),
		practice: practice.NewService(practice.Deps{
			Users:     st.UserRepo(),
			Texts:     st.TextRepo(),
			Attempts:  st.AttemptRepo(),
			Progress:  st.ProgressRepo(),
			Passages:  passage.NewService(provider, passage.DefaultConfig()),
			Questions: questiongen.New(provider, qcfg),
			Policy:    policy,
		}),
	}, nil
}
