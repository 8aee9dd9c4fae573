// Package modes holds the output-mode catalog and the active-mode
// selection with its cleanup-capability gating.
package modes

import "fmt"

const DefaultID = "default"

// Mode describes one selectable output format.
type Mode struct {
	ID              string
	Name            string
	Description     string
	RequiresCleanup bool
}

// Catalog returns the fixed mode catalog.
func Catalog() []Mode {
	return []Mode{
		{ID: DefaultID, Name: "Default", Description: "Clean up grammar and filler words", RequiresCleanup: true},
		{ID: "email", Name: "Email", Description: "Format as professional email", RequiresCleanup: true},
		{ID: "bullets", Name: "Bullet Points", Description: "Convert to organized bullet points", RequiresCleanup: true},
		{ID: "summary", Name: "Summary", Description: "Condense into a brief summary", RequiresCleanup: true},
		{ID: "slack", Name: "Slack Message", Description: "Short, casual chat message", RequiresCleanup: true},
		{ID: "meeting_notes", Name: "Meeting Notes", Description: "Structure with key points and action items", RequiresCleanup: true},
		{ID: "code_comment", Name: "Code Comment", Description: "Format as code documentation", RequiresCleanup: true},
	}
}

// SystemPrompt returns the cleanup instruction for a mode id. The
// language name is embedded so the model never translates.
func SystemPrompt(id, languageName string) string {
	switch id {
	case "email":
		return fmt.Sprintf("You are a professional email formatter that NEVER translates. Format this transcript as a professional email with an appropriate greeting, well-structured body paragraphs, and a professional closing. Keep the EXACT SAME LANGUAGE as the input (%s). NEVER change the language. Output ONLY the formatted email, nothing else.", languageName)
	case "bullets":
		return fmt.Sprintf("You are a content organizer that NEVER translates. Convert this transcript into clear, organized bullet points. Extract key points and use concise language. Keep the EXACT SAME LANGUAGE as the input (%s). NEVER change the language. Output ONLY the bullet list using • or - markers, nothing else.", languageName)
	case "summary":
		return fmt.Sprintf("You are a summarizer that NEVER translates. Condense this transcript into a brief summary capturing the main points. Be concise but comprehensive. Keep the EXACT SAME LANGUAGE as the input (%s). NEVER change the language. Output ONLY the summary, nothing else.", languageName)
	case "slack":
		return fmt.Sprintf("You are a chat message formatter that NEVER translates. Convert this transcript into a short, casual message suitable for Slack or chat. Keep it friendly and concise. Keep the EXACT SAME LANGUAGE as the input (%s). NEVER change the language. Output ONLY the message, nothing else.", languageName)
	case "meeting_notes":
		return fmt.Sprintf("You are a meeting notes formatter that NEVER translates. Structure this transcript as meeting notes with:\n- Key Discussion Points\n- Decisions Made\n- Action Items (if any)\nKeep the EXACT SAME LANGUAGE as the input (%s). NEVER change the language. Output ONLY the formatted notes, nothing else.", languageName)
	case "code_comment":
		return fmt.Sprintf("You are a code documentation formatter that NEVER translates. Format this transcript as a code documentation comment. Use appropriate format (JSDoc, docstring, etc. based on content). Be technical and precise. Keep the EXACT SAME LANGUAGE as the input (%s). NEVER change the language. Output ONLY the formatted comment, nothing else.", languageName)
	default:
		return fmt.Sprintf("You are a transcript cleaner that NEVER translates. You clean up speech transcripts by removing filler words and fixing grammar while keeping the EXACT SAME LANGUAGE as the input. If input is %[1]s, output %[1]s. NEVER change the language. Output ONLY the cleaned text.", languageName)
	}
}
