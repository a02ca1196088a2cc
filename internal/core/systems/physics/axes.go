package physics

// Lightweight spatial abstractions shared by movement, AI and the renderer bridge.
// The ground plane is XZ; Y is up.

// Up is the world up axis.
var Up = Vec3{Y: 1}

// Right is the fixed horizontal axis used when no other direction can be derived.
var Right = Vec3{X: 1}
