package security

import "regexp"

// maliciousPatterns is scanned in order against raw input, before any
// sanitization. The set mirrors common injection vectors: script/markup
// abuse, SQL keywords, path traversal, template and JNDI payloads.
var maliciousPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`),
	regexp.MustCompile(`(?i)javascript:`),
	regexp.MustCompile(`(?i)on\w+\s*=`),
	regexp.MustCompile(`(?i)<iframe[^>]*>`),
	regexp.MustCompile(`(?i)<object[^>]*>`),
	regexp.MustCompile(`(?i)<embed[^>]*>`),
	regexp.MustCompile(`(?i)eval\s*\(`),
	regexp.MustCompile(`(?i)document\.`),
	regexp.MustCompile(`(?i)window\.`),
	regexp.MustCompile(`(?i)\.innerHTML`),
	regexp.MustCompile(`(?is)SELECT.*FROM`),
	regexp.MustCompile(`(?is)UNION.*SELECT`),
	regexp.MustCompile(`(?is)DROP.*TABLE`),
	regexp.MustCompile(`(?is)INSERT.*INTO`),
	regexp.MustCompile(`(?is)UPDATE.*SET`),
	regexp.MustCompile(`(?is)DELETE.*FROM`),
	regexp.MustCompile(`\.\./`),
	regexp.MustCompile(`\.\.\\`),
	regexp.MustCompile(`/etc/passwd`),
	regexp.MustCompile(`/etc/shadow`),
	regexp.MustCompile(`(?i)\$\{jndi:`),
	regexp.MustCompile(`(?s)\{\{.*\}\}`),
	regexp.MustCompile(`(?s)<%.*%>`),
	regexp.MustCompile(`(?s)<\?.*\?>`),
}

// detectMalicious returns the pattern that matched, if any.
func detectMalicious(text string) (string, bool) {
	for _, p := range maliciousPatterns {
		if p.MatchString(text) {
			return p.String(), true
		}
	}
	return "", false
}
