package runner

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/aretw0/ticketchat/pkg/domain"
)

// JSONHandler implements IOHandler over JSON-Lines.
//
// Each input line is either a JSON object {"message": "..."}, a JSON string,
// or raw text. Each reply is written as one {"role": ..., "content": ...} line
// and failures as {"error": ...}.
type JSONHandler struct {
	Reader  *bufio.Reader
	Encoder *json.Encoder
}

type jsonInput struct {
	Message *string `json:"message"`
}

type jsonSystem struct {
	Error string `json:"error"`
}

// NewJSONHandler creates a handler for JSON IO.
func NewJSONHandler(r io.Reader, w io.Writer) *JSONHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	return &JSONHandler{
		Reader:  bufio.NewReader(r),
		Encoder: json.NewEncoder(w),
	}
}

func (h *JSONHandler) Input(ctx context.Context) (string, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		line, err := h.Reader.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			return "", err
		}

		text := decodeInputLine(strings.TrimSpace(line))
		clean, serr := SanitizeInput(text)
		if serr != nil {
			if encErr := h.Encoder.Encode(jsonSystem{Error: serr.Error()}); encErr != nil {
				return "", encErr
			}
			if err == io.EOF {
				return "", io.EOF
			}
			continue
		}
		return clean, nil
	}
}

func decodeInputLine(line string) string {
	var obj jsonInput
	if err := json.Unmarshal([]byte(line), &obj); err == nil && obj.Message != nil {
		return *obj.Message
	}
	var s string
	if err := json.Unmarshal([]byte(line), &s); err == nil {
		return s
	}
	return line
}

func (h *JSONHandler) Output(ctx context.Context, replies []domain.Message) error {
	for _, m := range replies {
		if err := h.Encoder.Encode(m); err != nil {
			return err
		}
	}
	return nil
}

func (h *JSONHandler) SystemOutput(ctx context.Context, msg string) error {
	return h.Encoder.Encode(jsonSystem{Error: msg})
}
