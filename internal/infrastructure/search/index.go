// Package search keeps an Elasticsearch projection of users and tasks and
// answers free-text queries against it.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-task-api/pkg/events"
)

const (
	requestTimeout = 3 * time.Second
	defaultSize    = 10
	maxSize        = 50
)

type Index struct {
	ES         *elasticsearch.Client
	UsersIndex string
	TasksIndex string
	Logger     *logrus.Logger
}

func NewIndex(es *elasticsearch.Client, usersIndex, tasksIndex string, logger *logrus.Logger) *Index {
	return &Index{ES: es, UsersIndex: usersIndex, TasksIndex: tasksIndex, Logger: logger}
}

// Enabled is false for a nil Index or one without a client; every method is then a no-op.
func (x *Index) Enabled() bool {
	return x != nil && x.ES != nil
}

func (x *Index) IndexUser(ctx context.Context, u events.UserPayload) error {
	if !x.Enabled() || x.UsersIndex == "" {
		return nil
	}
	doc := map[string]any{
		"id":        u.ID,
		"name":      u.Name,
		"email":     u.Email,
		"createdAt": u.CreatedAt.Format(time.RFC3339Nano),
	}
	return x.put(ctx, x.UsersIndex, u.ID, doc)
}

func (x *Index) IndexTask(ctx context.Context, t events.TaskPayload) error {
	if !x.Enabled() || x.TasksIndex == "" {
		return nil
	}
	doc := map[string]any{
		"id":          t.ID,
		"title":       t.Title,
		"description": t.Description,
		"status":      t.Status,
		"userId":      t.UserID,
		"userName":    t.UserName,
		"createdAt":   t.CreatedAt.Format(time.RFC3339Nano),
	}
	return x.put(ctx, x.TasksIndex, t.ID, doc)
}

// RenameOwner rewrites userName on every indexed task of the user.
func (x *Index) RenameOwner(ctx context.Context, userID, name string) error {
	if !x.Enabled() || x.TasksIndex == "" {
		return nil
	}
	body := map[string]any{
		"query": map[string]any{"term": map[string]any{"userId.keyword": userID}},
		"script": map[string]any{
			"source": "ctx._source.userName = params.name",
			"params": map[string]any{"name": name},
		},
	}
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	req := esapi.UpdateByQueryRequest{Index: []string{x.TasksIndex}, Body: bytes.NewReader(b)}
	res, err := req.Do(c, x.ES)
	return x.check(res, err, "update_by_query", userID)
}

func (x *Index) DeleteUser(ctx context.Context, userID string) error {
	if !x.Enabled() {
		return nil
	}
	if x.UsersIndex != "" {
		if err := x.delete(ctx, x.UsersIndex, userID); err != nil {
			return err
		}
	}
	if x.TasksIndex == "" {
		return nil
	}
	body, err := json.Marshal(map[string]any{
		"query": map[string]any{"term": map[string]any{"userId.keyword": userID}},
	})
	if err != nil {
		return err
	}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	req := esapi.DeleteByQueryRequest{Index: []string{x.TasksIndex}, Body: bytes.NewReader(body)}
	res, err := req.Do(c, x.ES)
	return x.check(res, err, "delete_by_query", userID)
}

func (x *Index) DeleteTask(ctx context.Context, taskID string) error {
	if !x.Enabled() || x.TasksIndex == "" {
		return nil
	}
	return x.delete(ctx, x.TasksIndex, taskID)
}

// SearchUsers matches q against email and name.
func (x *Index) SearchUsers(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if !x.Enabled() || x.UsersIndex == "" {
		return []map[string]any{}, nil
	}
	return x.search(ctx, x.UsersIndex, buildQuery(q, []string{"email^2", "name"}, size))
}

// SearchTasks matches q against title, description and owner name.
func (x *Index) SearchTasks(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if !x.Enabled() || x.TasksIndex == "" {
		return []map[string]any{}, nil
	}
	return x.search(ctx, x.TasksIndex, buildQuery(q, []string{"title^2", "description", "userName"}, size))
}

func buildQuery(q string, fields []string, size int) map[string]any {
	if size <= 0 || size > maxSize {
		size = defaultSize
	}
	return map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": fields,
			},
		},
		"size": size,
	}
}

func (x *Index) put(ctx context.Context, index, id string, doc map[string]any) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	req := esapi.IndexRequest{Index: index, DocumentID: id, Body: bytes.NewReader(b), Refresh: "false"}
	res, err := req.Do(c, x.ES)
	return x.check(res, err, "index", id)
}

func (x *Index) delete(ctx context.Context, index, id string) error {
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	req := esapi.DeleteRequest{Index: index, DocumentID: id}
	res, err := req.Do(c, x.ES)
	if err == nil && res.StatusCode == 404 {
		// already gone
		_ = res.Body.Close()
		return nil
	}
	return x.check(res, err, "delete", id)
}

func (x *Index) check(res *esapi.Response, err error, op, id string) error {
	if err != nil {
		if x.Logger != nil {
			x.Logger.WithError(err).WithFields(logrus.Fields{"op": op, "id": id}).Warn("es request failed")
		}
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		if x.Logger != nil {
			x.Logger.WithFields(logrus.Fields{"op": op, "id": id, "status": res.Status()}).Warn("es response error")
		}
		return fmt.Errorf("es %s: %s", op, res.Status())
	}
	_, _ = io.Copy(io.Discard, res.Body)
	return nil
}

func (x *Index) search(ctx context.Context, index string, query map[string]any) ([]map[string]any, error) {
	b, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := x.ES.Search(x.ES.Search.WithContext(c), x.ES.Search.WithIndex(index), x.ES.Search.WithBody(bytes.NewReader(b)))
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = res.Body.Close()
	}()
	if res.IsError() {
		return nil, fmt.Errorf("es search: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
