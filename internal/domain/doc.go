// Package domain models the SafetyNet emergency-alert dataset and the
// household aggregation queries answered over it.
//
// # Entities
//
// Three record kinds make up the dataset:
//
//	Person         first/last name, address, city, zip, phone, email
//	MedicalRecord  birth date, medications, allergies (keyed by person name)
//	Firestation    address → station number mapping
//
// A person's identity is the (first name, last name) pair. A person is linked
// to at most one medical record (same name) and at most one firestation (same
// address). Links are resolved by the store when it builds a snapshot; the
// domain never looks records up on its own.
//
// # Dates
//
// Birth dates use the US "MM/DD/YYYY" notation of the source dataset, e.g.
// "03/06/1984". Ages are whole years as of the query time; a birthday later
// in the current year has not yet been reached.
//
// # Classification
//
//	age < 18   child
//	age >= 18  adult
//
// Persons without a medical record have no age and are left out of any
// adult/child partition. They still appear in address groupings and station
// coverage listings, with the age omitted.
//
// # Sets
//
// Query results are sets. They are returned as slices with duplicates removed
// (by identity key for persons, by value for phones and emails) and sorted, so
// responses are stable across calls over the same snapshot.
package domain
