package template

const (
	ToolCommentSourceToken = "$SOURCE$"
	ToolCommentSignature   = `<!-- hava-export: $SOURCE$ - auto-generated comment, please do not remove -->`
)
