// Package handler is the first layer after the router.
//
// It decodes requests, validates them through the validation package and
// calls the service layer. Response formatting of errors is left to the
// global error handler.
package handler
