package gemini

// extractionPrompt tells the model how to read a grade report page and the
// exact JSON shape to answer with. Sent verbatim alongside every upload.
//
// Layout assumptions baked in: every page holds two students (top half and
// bottom half), attendance comes from the "% Attend." column where a "-"
// entry means 100, grades come from the "AF" column five columns to its
// right, and a "WITHDRAWN" final result forces both series to [0].
const extractionPrompt = `You are receiving a document with the end-of-semester grade records of a college.
Each page of the document holds the records of two students, which can be seen in the first column "Student Name".
The top half of the page belongs to student X and the bottom half of the page to student Y.
Return the following data formatted exactly like this:
[
    {
        "name": name,
        "attendances": [attendance, attendance, attendance, ...],
        "grades": [grade, grade, grade, ...]
    },
    {
        "name": name,
        "attendances": [attendance, attendance, attendance, ...],
        "grades": [grade, grade, grade, ...]
    }
]
The "name" field you must take from the "Student Name" column.
For the "attendances" field return every integer value of the "% Attend." column (entries holding '-', that is, entries that are not numbers, become 100).
For the "grades" field return every integer value of the "AF" column (5 columns to the right of the "% Attend." column you just processed).

Pay attention to the "Final Result" column. Whenever the result is "WITHDRAWN", set both the "attendances" and "grades" fields to [0] (an array with a single 0).

Do this for both student X and student Y of every page, and return no additional text besides the result in the exact format specified.`
