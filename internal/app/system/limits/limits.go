// internal/app/system/limits/limits.go
package limits

// Upload and request body size limits. These are enforced server-side;
// a client that skips its own checks still cannot exceed them.
const (
	// MaxFormSize is the maximum size for ordinary form submissions.
	MaxFormSize = 1 << 20 // 1 MB

	// MaxAvatarBytes is the maximum size for a profile avatar upload.
	MaxAvatarBytes = 2 << 20 // 2 MB

	// MaxImageBytes is the maximum size for a chat image attachment.
	MaxImageBytes = 5 << 20 // 5 MB

	// MaxVideoBytes is the maximum size for a chat video attachment.
	MaxVideoBytes = 20 << 20 // 20 MB

	// MaxMessageChars is the maximum length of a chat text message.
	MaxMessageChars = 4000

	// MaxReasonChars is the maximum length of a report reason.
	MaxReasonChars = 2000
)
