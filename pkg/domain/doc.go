package domain

// domain package contains the Domain Models of the MindGarden counseling practice backend.
//
// `domain/ENTITY.go` has high-level entities (Domain Model types) and functions.
// For example, `domain/schedule.go` contains the `Schedule` entity.
//
// `domain/ENTITY/db` directory contains the "physical" representation of the entity in RDB,
// and `domain/ENTITY/db/postgres` implements it.
//
// # Entities
//
// - `user`: People in the practice. Admins (of several ranks), Consultants and Clients.
//
// - `mapping`: Contract between a Consultant and a Client.
// A Mapping is created when the Client purchases a package of sessions.
// It walks PENDING_PAYMENT -> PAYMENT_CONFIRMED -> ACTIVE -> SESSIONS_EXHAUSTED,
// and can be TERMINATED on the way (with refund of remaining sessions).
//
// - `schedule`: Time slots of Consultants.
// A Schedule for a Client can be booked only while the pair has an ACTIVE Mapping with remaining sessions.
// Completing a Schedule consumes one session of the Mapping.
//
// And others:
//
// - `schedule/listing`: Filter, sort and paginate lists of Schedules, as the schedule list screen does.
//
// - `schema`: Database schema versioning.
