// Package policy resolves the RA-TLS attestation whitelist for the workload.
//
// The whitelist has two possible sources, tried in priority order:
//
//  1. An on-chain policy contract, queried with a single eth_call to its
//     zero-argument getSGXConfig() view function. The returned string is a
//     JSON policy document whose RATLS_WHITELIST_CONFIG field carries the
//     whitelist value.
//  2. The pre-existing RATLS_WHITELIST_CONFIG process environment value.
//
// Resolution is a single pass over an ordered source chain: the first source
// to produce a value wins, every failure falls through to the next source,
// and nothing is ever retried. An exhausted chain is not an error for the
// launcher - it means no additional restriction, and any attested peer is
// accepted by the downstream RA-TLS layer.
//
// The whitelist value itself is opaque here. Its Base64/CSV structure belongs
// to the attestation layer, which owns the matching semantics; this package
// never inspects it.
//
// The contract is assumed, not verified, to implement getSGXConfig(): a
// mismatched contract address produces a decode failure and a fallback,
// never a semantically wrong value.
package policy
