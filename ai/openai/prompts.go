package openai

import (
	"fmt"
	"strings"
)

const visionPrompt = `You are provided with one page of a document as an image.
Extract the full text content of the page.

Output ONLY valid JSON. Do not include any preamble, explanation, greeting,
or acknowledgment. Start your response directly with the opening brace { and
end with the closing brace }. Your output must exactly follow this schema:

{"content": "<the extracted page text>"}

Rules:
- Preserve the reading order of the page.
- Include text found in tables, captions and headers.
- If the page contains no readable text, return "content": "".
- The JSON must parse without errors; no trailing commas, no extra keys, and
  no extraneous text outside the object.`

const classifierSystemPrompt = `You are a strict binary classifier. You decide
whether a piece of content is related to any of a given list of topics.
Answer with exactly one word: "yes" or "no". Do not explain your answer.`

const classifierPromptTemplate = `Topics: %s

Content:
%s

Is the content related to at least one of the topics? Answer "yes" or "no".`

// buildClassifierPrompt renders the user prompt for a relevance check.
func buildClassifierPrompt(text string, topics []string) string {
	return fmt.Sprintf(classifierPromptTemplate, strings.Join(topics, ", "), text)
}
