package main

// genderAccepted reports whether a profile with the given gender satisfies
// the preference. "both" accepts every gender.
func genderAccepted(preference, gender string) bool {
	return preference == PrefBoth || preference == gender
}

// mutuallyEligible reports whether viewer and candidate can appear in each
// other's feeds. Eligibility is two-sided: the candidate must match the
// viewer's preference AND the viewer must match the candidate's preference.
// A one-sided fit is not enough.
func mutuallyEligible(viewer, candidate Profile) bool {
	return genderAccepted(viewer.GenderPreference, candidate.Gender) &&
		genderAccepted(candidate.GenderPreference, viewer.Gender)
}
