package preprocessing

import (
	"github.com/Givikap120/danser-reading/app/beatmap/difficulty"
	"github.com/Givikap120/danser-reading/app/beatmap/objects"
)

// CreateDifficultyObjects wraps every hit object except the first one, which only serves as the previous object of the second.
func CreateDifficultyObjects(hitObjects []objects.IHitObject, d *difficulty.Difficulty) []*DifficultyObject {
	if len(hitObjects) < 2 {
		return []*DifficultyObject{}
	}

	diffObjects := make([]*DifficultyObject, 0, len(hitObjects)-1)

	for i := 1; i < len(hitObjects); i++ {
		var lastLast objects.IHitObject

		if i > 1 {
			lastLast = hitObjects[i-2]
		}

		diffObjects = append(diffObjects, NewDifficultyObject(hitObjects[i], lastLast, hitObjects[i-1], d, &diffObjects, i-1))
	}

	return diffObjects
}
