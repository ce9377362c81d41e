package scholar

import (
	"context"
	"os"
	"testing"
	"time"
)

// Runs against the real OpenAI API when OPENAI_API_KEY is set and -short is not.
func TestLive_SummarizeOpenAI(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping live test in short mode")
	}
	key := os.Getenv("OPENAI_API_KEY")
	if key == "" {
		t.Skip("OPENAI_API_KEY not set")
	}

	c, err := New(ScholarConfig{OpenAIAPIKey: key})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	res, err := c.Summarize(ctx, "Today we covered for loops in Python. A for loop iterates over a sequence: for x in range(3): print(x).")
	if err != nil {
		t.Fatalf("Summarize error: %v", err)
	}
	if res.Summary == "" || res.KeyPoints == nil {
		t.Fatalf("unexpected summary %+v", res)
	}
	t.Logf("summary: %s", res.Summary)
}
