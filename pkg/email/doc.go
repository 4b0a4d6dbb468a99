// Package email provides the EmailSender interface with two
// implementations: a Postmark transactional client for production and a
// filesystem dev sender that stores outbound messages for inspection during
// local development.
package email
