package domain

import "github.com/google/uuid"

type UserID = uuid.UUID
type EntryID = uuid.UUID
type InviteID = uuid.UUID
type CredentialID = uuid.UUID
