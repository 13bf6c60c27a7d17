// Package models holds the MuniCollect domain types exchanged with the API:
// users, municipalities, payments, QR codes and notifications, together with
// the request/response pairs of every endpoint.
//
// Request types carry validation rules; call Validate before sending to
// reject bad input without a network round trip.
package models
