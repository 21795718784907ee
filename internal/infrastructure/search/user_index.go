// Package search keeps the Elasticsearch user directory in step with profiles.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/lingo-social/internal/application"
	"github.com/oksasatya/lingo-social/internal/domain/entity"
)

const requestTimeout = 3 * time.Second

type userDoc struct {
	ID               string `json:"id"`
	FullName         string `json:"full_name"`
	Bio              string `json:"bio"`
	AvatarURL        string `json:"avatar_url"`
	NativeLanguage   string `json:"native_language"`
	LearningLanguage string `json:"learning_language"`
	Location         string `json:"location"`
	IsOnboarded      bool   `json:"is_onboarded"`
	UpdatedAt        string `json:"updated_at"`
}

// UserIndex is the users index. Email and credentials are not indexed.
type UserIndex struct {
	es    *elasticsearch.Client
	index string
}

func NewUserIndex(es *elasticsearch.Client, index string) *UserIndex {
	return &UserIndex{es: es, index: index}
}

func (x *UserIndex) IndexUser(ctx context.Context, u *entity.User) error {
	b, err := json.Marshal(userDoc{
		ID:               u.ID,
		FullName:         u.FullName,
		Bio:              u.Bio,
		AvatarURL:        u.AvatarURL,
		NativeLanguage:   u.NativeLanguage,
		LearningLanguage: u.LearningLanguage,
		Location:         u.Location,
		IsOnboarded:      u.IsOnboarded,
		UpdatedAt:        u.UpdatedAt.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return err
	}

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	req := esapi.IndexRequest{Index: x.index, DocumentID: u.ID, Body: bytes.NewReader(b), Refresh: "false"}
	res, err := req.Do(c, x.es)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("index user %s: %s", u.ID, res.Status())
	}
	return nil
}

// SearchUsers matches name, languages and location among onboarded users,
// leaving out excludeID.
func (x *UserIndex) SearchUsers(ctx context.Context, query, excludeID string, size int) ([]entity.UserSummary, error) {
	if size <= 0 || size > 50 {
		size = 10
	}
	body := map[string]any{
		"size": size,
		"query": map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"multi_match": map[string]any{
						"query":  query,
						"fields": []string{"full_name^3", "native_language", "learning_language", "location", "bio"},
					},
				},
				"filter":   []any{map[string]any{"term": map[string]any{"is_onboarded": true}}},
				"must_not": []any{map[string]any{"ids": map[string]any{"values": []string{excludeID}}}},
			},
		},
	}
	b, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := x.es.Search(
		x.es.Search.WithContext(c),
		x.es.Search.WithIndex(x.index),
		x.es.Search.WithBody(bytes.NewReader(b)),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("search users: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source userDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]entity.UserSummary, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, entity.UserSummary{
			ID:               h.Source.ID,
			FullName:         h.Source.FullName,
			AvatarURL:        h.Source.AvatarURL,
			NativeLanguage:   h.Source.NativeLanguage,
			LearningLanguage: h.Source.LearningLanguage,
		})
	}
	return out, nil
}

var _ application.UserSearchIndex = (*UserIndex)(nil)
