package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"book-catalog/internal/core/apperr"
)

type Preferences struct {
	Genres  []string `json:"genres"`
	Authors []string `json:"authors"`
}

type Suggestion struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Description string `json:"description"`
	Genre       string `json:"genre"`
}

// Completer 便于测试时替换上游
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

type Service struct {
	client Completer
}

func NewService(client Completer) *Service { return &Service{client: client} }

const systemPrompt = "You are a knowledgeable book recommendation assistant. " +
	"Provide recommendations in valid JSON format."

// Recommend 按偏好请求推荐；结果原样返回，不排序、不去重、不落库
func (s *Service) Recommend(ctx context.Context, prefs Preferences) ([]Suggestion, error) {
	if len(prefs.Genres) == 0 && len(prefs.Authors) == 0 {
		return nil, apperr.Validation("At least one genre or author required")
	}

	content, err := s.client.Complete(ctx, systemPrompt, buildPrompt(prefs))
	if err != nil {
		return nil, err
	}
	return parseSuggestions(content)
}

func buildPrompt(prefs Preferences) string {
	return fmt.Sprintf(`Please recommend 5 books based on these preferences:
Genres: %s
Favorite Authors: %s

Return response as a JSON array where each book has:
- title: string
- author: string
- description: string (max 100 words)
- genre: string

Example format:
[
    {"title": "Book Title", "author": "Author Name", "description": "Brief description", "genre": "Genre"}
]`, strings.Join(prefs.Genres, ", "), strings.Join(prefs.Authors, ", "))
}

var requiredFields = []string{"title", "author", "description", "genre"}

func parseSuggestions(content string) ([]Suggestion, error) {
	// 模型偶尔会包 markdown 代码块，剥掉再解析
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var entries []map[string]any
	if err := json.Unmarshal([]byte(content), &entries); err != nil {
		return nil, apperr.UpstreamParse("failed to parse recommendations as JSON", err)
	}

	out := make([]Suggestion, 0, len(entries))
	for _, e := range entries {
		var s Suggestion
		for _, f := range requiredFields {
			v, ok := e[f]
			if !ok {
				return nil, apperr.UpstreamParse(
					"each book must have title, author, description and genre", nil)
			}
			str, ok := v.(string)
			if !ok {
				return nil, apperr.UpstreamParse(
					fmt.Sprintf("recommendation field %q must be a string", f), nil)
			}
			switch f {
			case "title":
				s.Title = str
			case "author":
				s.Author = str
			case "description":
				s.Description = str
			case "genre":
				s.Genre = str
			}
		}
		out = append(out, s)
	}
	return out, nil
}
