package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/deusflow/lueckentext/internal/exercise"
	"gopkg.in/yaml.v3"
)

const (
	fileTimeLayout  = "2006-01-02-15-04-05"
	htmlExtension   = ".html"
	answerKeySuffix = ".answers.yml"
)

// AnswerKey lists the solutions of an exercise in document order
type AnswerKey struct {
	Link        string    `yaml:"link"`
	GeneratedAt time.Time `yaml:"generated_at"`
	Answers     []Answer  `yaml:"answers"`
}

type Answer struct {
	Word     string `yaml:"word"`
	Solution string `yaml:"solution"`
}

// ExerciseStore writes rendered exercises into a directory
type ExerciseStore struct {
	dir       string
	prefix    string
	answerKey bool
	now       func() time.Time
}

// NewExerciseStore creates a store. With answerKey set every exercise gets a
// YAML sidecar holding its solutions.
func NewExerciseStore(dir, prefix string, answerKey bool) *ExerciseStore {
	return &ExerciseStore{
		dir:       dir,
		prefix:    prefix,
		answerKey: answerKey,
		now:       time.Now,
	}
}

// FileName returns the exercise file name for t, e.g.
// deutschtest_2024-03-01-14-05-09.html.
func (s *ExerciseStore) FileName(t time.Time) string {
	return s.prefix + t.Format(fileTimeLayout) + htmlExtension
}

// Save writes page, overwriting a file of the same name, and returns its path.
// When the answer key cannot be written the exercise file is removed again.
func (s *ExerciseStore) Save(page []byte, ex *exercise.Exercise) (string, error) {
	generatedAt := s.now()
	path := filepath.Join(s.dir, s.FileName(generatedAt))

	var answerKey []byte
	if s.answerKey {
		data, err := yaml.Marshal(NewAnswerKey(ex, generatedAt))
		if err != nil {
			return "", fmt.Errorf("failed to marshal answer key: %w", err)
		}
		answerKey = data
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, page, 0644); err != nil {
		return "", fmt.Errorf("failed to write exercise file: %w", err)
	}

	if answerKey != nil {
		if err := os.WriteFile(AnswerKeyPath(path), answerKey, 0644); err != nil {
			if removeErr := os.Remove(path); removeErr != nil {
				return "", fmt.Errorf("failed to write answer key: %w (removing %s: %v)", err, path, removeErr)
			}
			return "", fmt.Errorf("failed to write answer key: %w", err)
		}
	}
	return path, nil
}

func NewAnswerKey(ex *exercise.Exercise, generatedAt time.Time) AnswerKey {
	gaps := ex.Gaps()
	key := AnswerKey{
		Link:        ex.Link,
		GeneratedAt: generatedAt,
		Answers:     make([]Answer, 0, len(gaps)),
	}
	for _, gap := range gaps {
		key.Answers = append(key.Answers, Answer{Word: gap.Word(), Solution: gap.Answer})
	}
	return key
}

// AnswerKeyPath derives the sidecar path from an exercise path.
func AnswerKeyPath(exercisePath string) string {
	return strings.TrimSuffix(exercisePath, htmlExtension) + answerKeySuffix
}

// LoadAnswerKey reads a sidecar written by Save.
func LoadAnswerKey(path string) (*AnswerKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read answer key: %w", err)
	}

	var key AnswerKey
	if err := yaml.Unmarshal(data, &key); err != nil {
		return nil, fmt.Errorf("failed to unmarshal answer key: %w", err)
	}
	return &key, nil
}
