package fieldscan

import "regexp"

// rule is one entry in a field kind's ordered pattern table. Priority is
// the rule's index in the table: lower index means a more explicitly
// labeled, more specific pattern. The capture group holds the value.
type rule struct {
	re      *regexp.Regexp
	labeled bool

	// maxLine restricts the rule to the first N lines of the document
	// (0 means any line). Used by positional heuristics such as a bare
	// name near the top of a resume.
	maxLine int

	// skipLabelLines drops matches on lines that carry a known form label
	// or header decoration, so a bare-pattern rule cannot swallow label
	// text ("Bill To:", "Invoice ...").
	skipLabelLines bool
}

// Rule tables are process-wide, immutable, read-only configuration and are
// safe for concurrent extraction calls. All patterns operate on a single
// line at a time, so a matched value can never span a line break.
var ruleTables = map[FieldKind][]rule{
	KindName: {
		{re: regexp.MustCompile(`\b(?i:full\s+name)[:\s]+([A-Z][a-z]+(?:\s+[A-Z][a-z]+){1,2})`), labeled: true},
		{re: regexp.MustCompile(`\b(?i:(?:applicant\s+name|contact\s+name|name\s+of|name))[:\s]+([A-Z][a-z]+(?:\s+[A-Z][a-z]+){1,2})`), labeled: true},
		{re: regexp.MustCompile(`^([A-Z][a-z]+\s+[A-Z][a-z]+)`), maxLine: 10, skipLabelLines: true},
		{re: regexp.MustCompile(`\b(?i:(?:dear|hello|hi))\s+([A-Z][a-z]+\s+[A-Z][a-z]+)`)},
	},
	KindEmail: {
		{re: regexp.MustCompile(`\b([A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,})\b`)},
	},
	KindPhone: {
		{re: regexp.MustCompile(`\b(?i:(?:telephone|phone|mobile|tel|contact))[:\s]+(\+?[\d\s().-]{10,})`), labeled: true},
		{re: regexp.MustCompile(`\b(\+?1?[-.\s]?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4})\b`)},
		{re: regexp.MustCompile(`\b(\d{3}[-.\s]?\d{3}[-.\s]?\d{4})\b`)},
		{re: regexp.MustCompile(`(\+\d{1,3}[-.\s]?\d{1,4}[-.\s]?\d{1,4}[-.\s]?\d{1,9})\b`)},
	},
	KindAddress: {
		{re: regexp.MustCompile(`\b(?i:(?:mailing\s+address|address|location|residence))[:\s]+(.{10,150})`), labeled: true},
		{re: regexp.MustCompile(`(\d+\s+[A-Za-z0-9 ,.]*?(?:Street|St|Avenue|Ave|Road|Rd|Drive|Dr|Lane|Ln|Boulevard|Blvd|Court|Ct|Way|Place|Pl)\b[^|]*)`)},
	},
	KindDateOfBirth: {
		{re: regexp.MustCompile(`\b(?i:(?:date\s+of\s+birth|dob|birth\s+date|born|birthday))[:\s]+(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})`), labeled: true},
		{re: regexp.MustCompile(`\b(?i:(?:date\s+of\s+birth|dob|birth\s+date))[:\s]+([A-Za-z]+\s+\d{1,2},?\s+\d{4})`), labeled: true},
		{re: regexp.MustCompile(`\b(?i:(?:date\s+of\s+birth|dob))[:\s]+(\d{1,2}\s+[A-Za-z]+\s+\d{4})`), labeled: true},
	},
	KindCompany: {
		{re: regexp.MustCompile(`\b(?i:(?:company\s+name|employer\s+name|organization\s+name|company|employer|organization))[:\s]+([A-Za-z0-9 &.,-]+)`), labeled: true},
		{re: regexp.MustCompile(`\b(?i:(?:works\s+at|employed\s+at|works\s+for))[:\s]+([A-Za-z0-9 &.,-]+)`), labeled: true},
	},
	KindJobTitle: {
		{re: regexp.MustCompile(`\b(?i:(?:job\s+title|position|designation|title|role))[:\s]+([A-Za-z &/-]+)`), labeled: true},
		{re: regexp.MustCompile(`\b(?i:(?:works\s+as|position\s+is|title\s+is))[:\s]+([A-Za-z &/-]+)`), labeled: true},
	},
	KindDate: {
		{re: regexp.MustCompile(`\b(?i:(?:invoice\s+date|application\s+date|submission\s+date|due\s+date|date))[:\s]+(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})`), labeled: true},
		{re: regexp.MustCompile(`\b(?i:(?:invoice\s+date|application\s+date|date))[:\s]+([A-Za-z]+\s+\d{1,2},?\s+\d{4})`), labeled: true},
		{re: regexp.MustCompile(`\b(\d{1,2}[/-]\d{1,2}[/-]\d{4})\b`)},
	},
	KindAmount: {
		{re: regexp.MustCompile(`\b(?i:(?:amount|total|price|cost|fee|payment))[:\s]*\$?(\d[\d,]*(?:\.\d+)?)`), labeled: true},
		{re: regexp.MustCompile(`\$(\d[\d,]*(?:\.\d+)?)`)},
		{re: regexp.MustCompile(`(\d[\d,]*(?:\.\d+)?)\s*(?i:usd|dollars)`)},
	},
	KindIDNumber: {
		{re: regexp.MustCompile(`\b(?i:(?:id\s+number|ssn|social\s+security|passport\s+number|license\s+number|id))[:\s]+([A-Z0-9-]+)`), labeled: true},
		{re: regexp.MustCompile(`\b([A-Z]{1,2}\d{6,})\b`)},
		{re: regexp.MustCompile(`\b(\d{3}-\d{2}-\d{4})\b`)},
	},
	KindWebsite: {
		{re: regexp.MustCompile(`\b(?i:(?:website|url|web|site))[:\s]+(https?://\S+|www\.\S+|[a-z0-9-]+\.[a-z]{2,}(?:\.[a-z]{2,})?)`), labeled: true},
	},
	KindZipCode: {
		{re: regexp.MustCompile(`\b(?i:(?:zip|postal\s+code|postcode))[:\s]+(\d{5,10})`), labeled: true},
		{re: regexp.MustCompile(`\b(\d{5}(?:-\d{4})?)\b`)},
	},
}

// labelLinePattern marks lines a bare-name rule must not fire on: the line
// is itself a labeled form field or invoice header, not a standalone name.
var labelLinePattern = regexp.MustCompile(`(?i:name\s*:|email\s*:|phone\s*:|address\s*:|bill\s+to\s*:|invoice|^\s*(?:dear|hello|hi)\b)`)
