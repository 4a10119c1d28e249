// Package refactor implements the LaTeX-refactoring stage: deterministic
// application of an edit plan to the source résumé, preserving the preamble
// and surrounding structure untouched.
package refactor

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jonathan/job-tailor/internal/types"
)

const beginDocument = `\begin{document}`
const endDocument = `\end{document}`

// Refactorer applies edit plans. It is pure: no external calls.
type Refactorer struct {
	verbose bool
}

// New creates a Refactorer
func New(verbose bool) *Refactorer {
	return &Refactorer{verbose: verbose}
}

// Apply executes each directive in plan order against progressively mutated
// text. Every original_text match is re-verified immediately before its
// apply, since earlier directives may have shifted the text; a failed
// re-verification counts as failed_at_apply and skips only that directive.
// skippedAtValidation is carried into the diff summary from the strategist.
// Zero successful applies is an error: the output would equal the input.
func (r *Refactorer) Apply(plan *types.EditPlan, resumeText string, skippedAtValidation int) (*types.TailoredResume, error) {
	preamble, body, ok := splitDocument(resumeText)
	if !ok {
		// No \begin{document}: treat the whole text as the editable body
		preamble, body = "", resumeText
	}

	diff := types.DiffSummary{SkippedAtValidation: skippedAtValidation}

	for _, directive := range plan.Directives {
		newBody, applied := applyDirective(body, directive)
		if applied {
			body = newBody
			diff.Applied++
		} else {
			diff.FailedAtApply++
			if r.verbose {
				fmt.Printf("Directive failed at apply: %s in %q\n", directive.Operation, directive.TargetSection)
			}
		}
	}

	if diff.Applied == 0 {
		return nil, &Error{Message: fmt.Sprintf("no directives applied (%d failed at apply)", diff.FailedAtApply)}
	}

	return &types.TailoredResume{Text: preamble + body, Diff: diff}, nil
}

// splitDocument separates the untouchable preamble (through \begin{document})
// from the editable body
func splitDocument(text string) (preamble, body string, ok bool) {
	idx := strings.Index(text, beginDocument)
	if idx < 0 {
		return "", "", false
	}
	split := idx + len(beginDocument)
	return text[:split], text[split:], true
}

// applyDirective applies one directive, reporting whether it took effect
func applyDirective(body string, directive types.EditDirective) (string, bool) {
	switch directive.Operation {
	case types.OpRewriteBullet:
		return replaceOnce(body, directive.OriginalText, directive.NewText)

	case types.OpRemoveBullet:
		return removeBullet(body, directive.OriginalText)

	case types.OpAddBullet:
		return addBullet(body, directive.TargetSection, directive.NewText)

	case types.OpInjectKeyword:
		// With an anchor, inject by rewriting the anchored text; otherwise
		// surface the keyword as a new bullet in the target section.
		if directive.OriginalText != "" {
			return replaceOnce(body, directive.OriginalText, directive.NewText)
		}
		return addBullet(body, directive.TargetSection, directive.NewText)
	}
	return body, false
}

// replaceOnce substitutes the first occurrence of original, verifying the
// match first
func replaceOnce(body, original, replacement string) (string, bool) {
	if original == "" || !strings.Contains(body, original) {
		return body, false
	}
	return strings.Replace(body, original, replacement, 1), true
}

// removeBullet deletes the original text. When the text sits on an \item
// line, the whole line goes, so no orphaned \item remains.
func removeBullet(body, original string) (string, bool) {
	idx := strings.Index(body, original)
	if original == "" || idx < 0 {
		return body, false
	}

	lineStart, lineEnd := lineBounds(body, idx)
	line := strings.TrimSpace(body[lineStart:lineEnd])
	if strings.HasPrefix(line, `\item`) {
		// Drop the line and its trailing newline
		if lineEnd < len(body) && body[lineEnd] == '\n' {
			lineEnd++
		}
		return body[:lineStart] + body[lineEnd:], true
	}

	return strings.Replace(body, original, "", 1), true
}

// addBullet inserts a new \item at the end of the target section's item
// list. Fails when the section or an insertion point cannot be located.
func addBullet(body, targetSection, newText string) (string, bool) {
	if strings.TrimSpace(newText) == "" {
		return body, false
	}

	sectionStart, sectionEnd, ok := sectionBounds(body, targetSection)
	if !ok {
		return body, false
	}
	section := body[sectionStart:sectionEnd]

	item := `\item ` + newText

	// Insert after the last \item in the section
	if idx := strings.LastIndex(section, `\item`); idx >= 0 {
		_, lineEnd := lineBounds(section, idx)
		indent := lineIndent(section, idx)
		insert := "\n" + indent + item
		return body[:sectionStart] + section[:lineEnd] + insert + section[lineEnd:] + body[sectionEnd:], true
	}

	// No items yet: insert just before the section's \end{itemize}
	if idx := strings.Index(section, `\end{itemize}`); idx >= 0 {
		insert := item + "\n"
		return body[:sectionStart] + section[:idx] + insert + section[idx:] + body[sectionEnd:], true
	}

	return body, false
}

// sectionBounds locates the region from a matching \section or \subsection
// heading to the next heading or \end{document}. The match is a
// case-insensitive substring test on the heading argument.
func sectionBounds(body, targetSection string) (start, end int, ok bool) {
	if strings.TrimSpace(targetSection) == "" {
		return 0, 0, false
	}

	headings := sectionHeadingPattern.FindAllStringSubmatchIndex(body, -1)
	target := strings.ToLower(strings.TrimSpace(targetSection))

	for i, match := range headings {
		name := strings.ToLower(strings.TrimSpace(body[match[2]:match[3]]))
		if name == "" {
			continue
		}
		if !strings.Contains(name, target) && !strings.Contains(target, name) {
			continue
		}
		start = match[0]
		end = len(body)
		if i+1 < len(headings) {
			end = headings[i+1][0]
		} else if idx := strings.Index(body[start:], endDocument); idx >= 0 {
			end = start + idx
		}
		return start, end, true
	}
	return 0, 0, false
}

var sectionHeadingPattern = regexp.MustCompile(`\\(?:sub)*section\*?\{([^}]*)\}`)

// lineBounds returns the bounds of the line containing idx, excluding the
// trailing newline
func lineBounds(text string, idx int) (start, end int) {
	start = strings.LastIndexByte(text[:idx], '\n') + 1
	end = len(text)
	if rel := strings.IndexByte(text[idx:], '\n'); rel >= 0 {
		end = idx + rel
	}
	return start, end
}

// lineIndent returns the leading whitespace of the line containing idx
func lineIndent(text string, idx int) string {
	start, end := lineBounds(text, idx)
	line := text[start:end]
	return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
}
