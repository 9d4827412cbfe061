package consts

const (
	VideoScoreDirtyKey      = "video:score:dirty"
	VideoScoreProcessingKey = "video:score:processing"
	TokenRevokedKey         = "token:revoked:"
)
