// Package token persists and decodes the bearer credential issued by the
// Russian Cup API.
//
// A Store wraps exactly one persistent slot holding the credential string.
// Reads are self-healing: a credential that does not have three segments,
// cannot be decoded, or has expired is erased on the first Get and reported
// as absent. The Codec reads the claims embedded in the credential without
// verifying a signature; the server remains the authority on validity.
package token
