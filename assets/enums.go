package assets

//go:generate go tool go-enum --marshal --names

// Origin of the asset in persisted manifest.
// ENUM(copy, font-css, font-file)
type OriginKind int

// Face within font family.
// ENUM(regular, bold, italic, bold-italic)
type FaceType int
