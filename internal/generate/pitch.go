// Package generate writes submission pitches for a speaker/conference pair,
// caching results so repeated views of the same match do not re-query the
// model.
package generate

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"

	"github.com/jonathan/cfp-scout/internal/llm"
	"github.com/jonathan/cfp-scout/internal/prompts"
	"github.com/jonathan/cfp-scout/internal/types"
)

// pitchSchema validates the model's JSON before it reaches callers.
const pitchSchema = `{
	"type": "object",
	"required": ["headline", "angle", "talk_ideas"],
	"properties": {
		"headline":   {"type": "string", "minLength": 1},
		"angle":      {"type": "string", "minLength": 1},
		"talk_ideas": {"type": "array", "items": {"type": "string"}, "minItems": 1}
	}
}`

// Pitch is a tailored submission suggestion for one conference.
type Pitch struct {
	Headline  string   `json:"headline"`
	Angle     string   `json:"angle"`
	TalkIdeas []string `json:"talk_ideas"`
}

// Generator produces pitches through an LLM client with caching.
type Generator struct {
	client llm.Client
	cache  Cache
	schema *gojsonschema.Schema
	log    *zap.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithCache swaps the default cache implementation.
func WithCache(cache Cache) Option {
	return func(g *Generator) { g.cache = cache }
}

// WithLogger attaches a logger.
func WithLogger(log *zap.Logger) Option {
	return func(g *Generator) { g.log = log }
}

// NewGenerator creates a Generator around the given model client. By default
// pitches are cached for an hour, at most 64 at a time.
func NewGenerator(client llm.Client, opts ...Option) (*Generator, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(pitchSchema))
	if err != nil {
		return nil, fmt.Errorf("failed to compile pitch schema: %w", err)
	}

	g := &Generator{
		client: client,
		cache:  NewLRUCache(64, time.Hour),
		schema: schema,
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Pitch returns a pitch for the speaker/conference pair. Results are cached
// by a structural key over the conference ID and the profile fields that feed
// the prompt; identical inputs within the cache TTL return identical output
// without another model call. Unparseable or schema-violating model output
// degrades to a deterministic fallback pitch rather than an error.
func (g *Generator) Pitch(ctx context.Context, cfp *types.CandidateRecord, profile *types.InterviewProfile) (*Pitch, error) {
	key := cacheKey(cfp, profile)
	if raw, ok := g.cache.Get(key); ok {
		var pitch Pitch
		if err := json.Unmarshal(raw, &pitch); err == nil {
			return &pitch, nil
		}
	}

	raw, err := g.client.GenerateJSON(ctx, g.prompt(cfp, profile))
	if err != nil {
		return nil, fmt.Errorf("failed to generate pitch: %w", err)
	}

	pitch, ok := g.parse(raw)
	if !ok {
		g.log.Warn("pitch output failed validation, using fallback",
			zap.String("conference", cfp.Name))
		pitch = fallbackPitch(cfp, profile)
	}

	encoded, err := json.Marshal(pitch)
	if err != nil {
		return nil, fmt.Errorf("failed to encode pitch: %w", err)
	}
	g.cache.Set(key, encoded)
	return pitch, nil
}

func (g *Generator) prompt(cfp *types.CandidateRecord, profile *types.InterviewProfile) string {
	return prompts.PitchPrompt(map[string]string{
		"Role":          profile.Role,
		"TechStack":     strings.Join(profile.TechStack, ", "),
		"Interests":     strings.Join(profile.Interests, ", "),
		"Experience":    string(profile.SpeakingExperience),
		"Conference":    cfp.Name,
		"Topics":        strings.Join(cfp.Topics, ", "),
		"AudienceLevel": cfp.AudienceLevel,
	})
}

func (g *Generator) parse(raw string) (*Pitch, bool) {
	cleaned := llm.CleanJSONBlock(raw)
	result, err := g.schema.Validate(gojsonschema.NewStringLoader(cleaned))
	if err != nil || !result.Valid() {
		return nil, false
	}
	var pitch Pitch
	if err := json.Unmarshal([]byte(cleaned), &pitch); err != nil {
		return nil, false
	}
	return &pitch, true
}

// fallbackPitch derives a plain pitch from the inputs when the model output
// is unusable.
func fallbackPitch(cfp *types.CandidateRecord, profile *types.InterviewProfile) *Pitch {
	topic := "your field"
	if len(profile.Interests) > 0 {
		topic = profile.Interests[0]
	} else if len(cfp.Topics) > 0 {
		topic = cfp.Topics[0]
	}
	return &Pitch{
		Headline:  fmt.Sprintf("Lessons from %s in production", topic),
		Angle:     fmt.Sprintf("As a %s, share hands-on experience with %s for the %s audience.", profile.Role, topic, cfp.Name),
		TalkIdeas: []string{fmt.Sprintf("A practitioner's introduction to %s", topic)},
	}
}

// cacheKey hashes the conference ID together with the profile fields that
// shape the prompt.
func cacheKey(cfp *types.CandidateRecord, profile *types.InterviewProfile) string {
	h := fnv.New64a()
	write := func(parts ...string) {
		for _, p := range parts {
			h.Write([]byte(p))
			h.Write([]byte{0})
		}
	}
	write(cfp.ID, cfp.Name, profile.Role, string(profile.SpeakingExperience))
	write(profile.TechStack...)
	write(profile.Interests...)
	return fmt.Sprintf("pitch:%x", h.Sum64())
}
