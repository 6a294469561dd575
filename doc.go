// Package structor extracts structured data from unstructured text with a
// large language model.
//
// A definition declares data fields (string, numeric, list or object) and an
// optional workflow graph. Decision workflows ask the model to pick one of
// their explanation workflows, explanation workflows extract their own
// fields. Fields shared between workflows are extracted once per input.
//
//	model, _ := provider.New(ctx, provider.DefaultConfig())
//	srv, err := structor.Load(ctx, "engine.yaml", model)
//	if err != nil {
//		return err
//	}
//	result, err := srv.Run(ctx, text)
//
// The building blocks live in sub-packages:
//
//   - service/field   field registry and extraction strategies
//   - model/graph     workflow graph derivation and validation
//   - service/branch  explanation workflow selection
//   - runtime/orchestrator  scheduling, caching and result assembly
package structor
