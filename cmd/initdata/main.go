// Command initdata seeds a running Noteful server through its HTTP API:
// a demo user, a handful of folders and tags, and n notes filed across them.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/brianvoe/gofakeit/v6"
)

var (
	baseURL  = flag.String("url", env("API_BASE_URL", "http://localhost:8080"), "Server base URL")
	username = flag.String("username", env("USERNAME", "bobuser"), "Demo username")
	pass     = flag.String("pass", env("PASSWORD", "baseball"), "Demo password")
	nFolders = flag.Int("folders", envInt("FOLDERS", 4), "How many folders to create")
	nTags    = flag.Int("tags", envInt("TAGS", 6), "How many tags to create")
	nNotes   = flag.Int("n", envInt("COUNT", 50), "How many notes to create")
)

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil && v > 0 {
		return v
	}
	return def
}

func main() {
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	s := &seeder{
		baseURL: *baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		faker:   gofakeit.New(time.Now().UnixNano()),
		out:     os.Stdout,
	}

	fmt.Printf("Seeding %s (folders=%d tags=%d notes=%d)\n", *baseURL, *nFolders, *nTags, *nNotes)

	if err := s.run(ctx, *username, *pass, *nFolders, *nTags, *nNotes); err != nil {
		fmt.Fprintln(os.Stderr, "FATAL:", err)
		os.Exit(1)
	}

	fmt.Println("done")
}

// errStatus reports an unexpected response status.
type errStatus struct {
	op     string
	status int
	body   string
}

func (e *errStatus) Error() string {
	return fmt.Sprintf("%s failed (%d): %s", e.op, e.status, e.body)
}

type seeder struct {
	baseURL string
	client  *http.Client
	faker   *gofakeit.Faker
	out     io.Writer
	token   string
}

func (s *seeder) run(ctx context.Context, username, password string, folders, tags, notes int) error {
	if err := s.ensureUser(ctx, username, password); err != nil {
		return err
	}

	folderIDs, err := s.createNamed(ctx, "/api/folders", folders, func() string {
		return s.faker.Word() + " " + s.faker.Noun()
	})
	if err != nil {
		return err
	}

	tagIDs, err := s.createNamed(ctx, "/api/tags", tags, func() string {
		return s.faker.Adjective()
	})
	if err != nil {
		return err
	}

	return s.createNotes(ctx, notes, folderIDs, tagIDs)
}

// ensureUser signs up, tolerating an existing account, then signs in.
func (s *seeder) ensureUser(ctx context.Context, username, password string) error {
	payload := map[string]string{"fullname": s.faker.Name(), "username": username, "password": password}

	err := s.post(ctx, "/api/users", payload, http.StatusCreated, nil)
	var se *errStatus
	switch {
	case err == nil:
		fmt.Fprintln(s.out, "- signed up new user")
	case errors.As(err, &se) && se.status == http.StatusBadRequest:
		fmt.Fprintln(s.out, "- user exists, signing in")
	default:
		return err
	}

	var auth struct {
		AuthToken string `json:"authToken"`
	}
	if err := s.post(ctx, "/api/login", map[string]string{"username": username, "password": password}, http.StatusOK, &auth); err != nil {
		return err
	}
	s.token = auth.AuthToken
	return nil
}

// createNamed creates n folders or tags and returns their ids. Name clashes
// with existing entries are skipped.
func (s *seeder) createNamed(ctx context.Context, path string, n int, name func() string) ([]string, error) {
	ids := make([]string, 0, n)
	for attempts := 0; len(ids) < n && attempts < n*3; attempts++ {
		var created struct {
			ID string `json:"id"`
		}
		err := s.post(ctx, path, map[string]string{"name": name()}, http.StatusCreated, &created)
		var se *errStatus
		if errors.As(err, &se) && se.status == http.StatusBadRequest {
			continue
		}
		if err != nil {
			return nil, err
		}
		ids = append(ids, created.ID)
	}
	fmt.Fprintf(s.out, "- %s: %d created\n", path, len(ids))
	return ids, nil
}

func (s *seeder) createNotes(ctx context.Context, total int, folderIDs, tagIDs []string) error {
	for i := 1; i <= total; i++ {
		note := map[string]any{
			"title":   s.faker.Sentence(4),
			"content": s.faker.Paragraph(1, 3, 30, " "),
		}
		if len(folderIDs) > 0 && s.faker.Bool() {
			note["folderId"] = folderIDs[s.faker.Number(0, len(folderIDs)-1)]
		}
		if len(tagIDs) > 0 {
			picked := map[string]struct{}{}
			for j := s.faker.Number(0, 2); j > 0; j-- {
				picked[tagIDs[s.faker.Number(0, len(tagIDs)-1)]] = struct{}{}
			}
			tags := make([]string, 0, len(picked))
			for id := range picked {
				tags = append(tags, id)
			}
			note["tags"] = tags
		}

		if err := s.post(ctx, "/api/notes", note, http.StatusCreated, nil); err != nil {
			return fmt.Errorf("note %d: %w", i, err)
		}

		if i%25 == 0 || i == total {
			fmt.Fprintf(s.out, "  ... %d/%d notes\n", i, total)
		}
	}
	return nil
}

func (s *seeder) post(ctx context.Context, path string, body any, want int, out any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != want {
		return &errStatus{op: "POST " + path, status: resp.StatusCode, body: string(data)}
	}
	if out != nil {
		return json.Unmarshal(data, out)
	}
	return nil
}
