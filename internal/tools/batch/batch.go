package batch

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Result statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// MaxItems bounds the number of items one batch call may carry.
const MaxItems = 31

// Result is the outcome for one item of a batch.
type Result struct {
	Item    string `json:"item"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// BatchResult aggregates the results of a batch operation.
type BatchResult struct {
	Total      int      `json:"total"`
	Successful int      `json:"successful"`
	Failed     int      `json:"failed"`
	Results    []Result `json:"results"`
}

// ParseStringOrArray parses a parameter that is either a single string, an
// array of strings, or a string holding a JSON array of strings. Some MCP
// clients send arrays in the last form.
func ParseStringOrArray(param any, paramName string) ([]string, error) {
	if param == nil {
		return nil, fmt.Errorf("%s is required", paramName)
	}

	var result []string

	switch v := param.(type) {
	case string:
		if v == "" {
			return nil, fmt.Errorf("%s cannot be empty", paramName)
		}
		if strings.HasPrefix(strings.TrimSpace(v), "[") {
			var items []string
			if err := json.Unmarshal([]byte(v), &items); err == nil {
				if len(items) == 0 {
					return nil, fmt.Errorf("%s cannot be empty", paramName)
				}
				return checkItems(items, paramName)
			}
		}
		result = []string{v}
	case []string:
		if len(v) == 0 {
			return nil, fmt.Errorf("%s cannot be empty", paramName)
		}
		return checkItems(v, paramName)
	case []any:
		if len(v) == 0 {
			return nil, fmt.Errorf("%s cannot be empty", paramName)
		}
		for i, item := range v {
			str, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%s[%d] must be a string", paramName, i)
			}
			result = append(result, str)
		}
		return checkItems(result, paramName)
	default:
		return nil, fmt.Errorf("%s must be a string or array of strings", paramName)
	}

	return result, nil
}

func checkItems(items []string, paramName string) ([]string, error) {
	if len(items) > MaxItems {
		return nil, fmt.Errorf("%s accepts at most %d items, got %d", paramName, MaxItems, len(items))
	}
	out := make([]string, 0, len(items))
	for i, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			return nil, fmt.Errorf("%s[%d] cannot be empty", paramName, i)
		}
		out = append(out, item)
	}
	return out, nil
}

// IsBatch reports whether param was sent as an array rather than a single
// string.
func IsBatch(param any) bool {
	switch v := param.(type) {
	case []any, []string:
		return true
	case string:
		return strings.HasPrefix(strings.TrimSpace(v), "[") && json.Valid([]byte(v))
	}
	return false
}

// Summarize aggregates results.
func Summarize(results []Result) BatchResult {
	br := BatchResult{
		Total:   len(results),
		Results: results,
	}
	for _, r := range results {
		if r.Status == StatusSuccess {
			br.Successful++
		} else {
			br.Failed++
		}
	}
	return br
}

// FormatResults renders results as an indented JSON summary.
func FormatResults(results []Result) string {
	jsonBytes, _ := json.MarshalIndent(Summarize(results), "", "  ")
	return string(jsonBytes)
}

// FailedError reports a batch in which no item succeeded. Its text is the
// JSON summary; it unwraps to the errors of the individual items.
type FailedError struct {
	Summary string
	Errs    []error
}

func (e *FailedError) Error() string { return e.Summary }

func (e *FailedError) Unwrap() []error { return e.Errs }

// ProcessBatch runs fn on each item in order and collects the results.
// A failing item does not stop the batch.
func ProcessBatch(items []string, fn func(item string) (string, error)) []Result {
	results := make([]Result, 0, len(items))
	for _, item := range items {
		message, err := fn(item)
		if err != nil {
			results = append(results, NewErrorResult(item, err))
			continue
		}
		results = append(results, NewSuccessResult(item, message))
	}
	return results
}

// NewSuccessResult creates a success result
func NewSuccessResult(item, message string) Result {
	return Result{
		Item:    item,
		Status:  StatusSuccess,
		Message: message,
	}
}

// NewErrorResult creates an error result
func NewErrorResult(item string, err error) Result {
	return Result{
		Item:   item,
		Status: StatusError,
		Error:  err.Error(),
	}
}
