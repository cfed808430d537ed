package formatter

// totalityTemplate renders one issue: the header, the offending line with
// the construct underlined, the message and one note per unmatched constant.
const totalityTemplate = `{{header .Rule .Severity .MaxLineNumWidth .Filename .StartLine .StartColumn}}
{{snippet .SnippetLines .StartLine .EndLine .MaxLineNumWidth .CommonIndent .Padding}}
{{underlineAndMessage .Message .Padding .StartLine .EndLine .StartColumn .EndColumn .SnippetLines .CommonIndent}}
{{- if .Note}}
{{note .Note .Padding}}
{{- end}}

`
