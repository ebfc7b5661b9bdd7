package services

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"trendora/models"
	"trendora/repositories"

	"github.com/sashabaranov/go-openai"
)

//go:embed prompts/suggestions_system.txt
var suggestionSystemPrompt string

//go:embed prompts/suggestions_user.txt
var suggestionUserPrompt string

const (
	suggestionWindow     = 30 * 24 * time.Hour
	suggestionCandidates = 40
	suggestionLimit      = 8
)

// ChatOracle is the language-model collaborator behind product suggestions.
type ChatOracle interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// OpenAIOracle implements ChatOracle on the OpenAI chat completion API.
type OpenAIOracle struct {
	client *openai.Client
	model  string
}

func NewOpenAIOracle(apiKey string) *OpenAIOracle {
	return &OpenAIOracle{client: openai.NewClient(apiKey), model: openai.GPT4oMini}
}

func (o *OpenAIOracle) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.model,
		Temperature: 0.2,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty completion", ErrUpstream)
	}
	return resp.Choices[0].Message.Content, nil
}

// SuggestionService builds personalized product suggestions from the last 30
// days of a user's activity, ranked by the chat oracle.
type SuggestionService struct {
	products repositories.ProductStore
	orders   repositories.OrderStore
	reviews  repositories.ReviewStore
	activity repositories.ActivityStore
	oracle   ChatOracle
}

func NewSuggestionService(products repositories.ProductStore, orders repositories.OrderStore, reviews repositories.ReviewStore, activity repositories.ActivityStore, oracle ChatOracle) *SuggestionService {
	return &SuggestionService{products: products, orders: orders, reviews: reviews, activity: activity, oracle: oracle}
}

type oracleReply struct {
	ProductIDs []int  `json:"product_ids"`
	Rationale  string `json:"rationale"`
}

// Suggestions is the oracle's pick: products in rank order plus the free-text
// rationale the oracle gave for them.
type Suggestions struct {
	Products  []models.Product `json:"products"`
	Rationale string           `json:"rationale,omitempty"`
}

// SuggestProducts returns oracle-ranked products for the user. Users with no
// recent activity get an empty list, not an error.
func (s *SuggestionService) SuggestProducts(ctx context.Context, userID int) (*Suggestions, error) {
	since := time.Now().Add(-suggestionWindow)

	terms, err := s.activity.SearchTermsSince(ctx, userID, since)
	if err != nil {
		return nil, err
	}
	viewed, err := s.activity.ViewedProductIDsSince(ctx, userID, since)
	if err != nil {
		return nil, err
	}
	purchased, err := s.orders.DeliveredProductIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	comments, err := s.reviews.RecentComments(ctx, userID, since)
	if err != nil {
		return nil, err
	}

	if len(terms) == 0 && len(viewed) == 0 && len(purchased) == 0 && len(comments) == 0 {
		return &Suggestions{Products: []models.Product{}}, nil
	}

	candidates, _, err := s.products.List(ctx, 1, suggestionCandidates)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return &Suggestions{Products: []models.Product{}}, nil
	}

	userPrompt := fmt.Sprintf(suggestionUserPrompt,
		joinOrNone(terms),
		joinIntsOrNone(viewed),
		joinIntsOrNone(purchased),
		joinOrNone(truncateEach(comments, 120)),
		formatCandidates(candidates),
		suggestionLimit,
	)

	raw, err := s.oracle.Complete(ctx, suggestionSystemPrompt, userPrompt)
	if err != nil {
		return nil, err
	}

	reply, err := parseOracleReply(raw)
	if err != nil {
		log.Printf("Suggestion oracle returned unparseable output: %v", err)
		return nil, err
	}

	ids := filterKnownIDs(reply.ProductIDs, candidates, suggestionLimit)
	if len(ids) == 0 {
		return &Suggestions{Products: []models.Product{}}, nil
	}
	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return &Suggestions{
		Products:  orderByIDs(products, ids),
		Rationale: reply.Rationale,
	}, nil
}

// parseOracleReply tolerates code fences and leading prose around the JSON
// object the prompt asks for.
func parseOracleReply(raw string) (*oracleReply, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("%w: no JSON object in oracle reply", ErrUpstream)
	}
	var reply oracleReply
	if err := json.Unmarshal([]byte(raw[start:end+1]), &reply); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return &reply, nil
}

func filterKnownIDs(ids []int, candidates []models.Product, limit int) []int {
	known := make(map[int]bool, len(candidates))
	for _, p := range candidates {
		known[p.ID] = true
	}
	out := make([]int, 0, limit)
	seen := make(map[int]bool, limit)
	for _, id := range ids {
		if !known[id] || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
		if len(out) == limit {
			break
		}
	}
	return out
}

func formatCandidates(products []models.Product) string {
	var b strings.Builder
	for _, p := range products {
		fmt.Fprintf(&b, "%d | %s | %.2f | %s\n", p.ID, p.Title, p.EffectivePrice(), strings.Join(p.Tags, ","))
	}
	return b.String()
}

func joinOrNone(values []string) string {
	if len(values) == 0 {
		return "none"
	}
	return strings.Join(values, "; ")
}

func joinIntsOrNone(values []int) string {
	if len(values) == 0 {
		return "none"
	}
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ", ")
}

func truncateEach(values []string, max int) []string {
	out := make([]string, len(values))
	for i, v := range values {
		if len(v) > max {
			v = v[:max]
		}
		out[i] = v
	}
	return out
}
